package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gym-api/internal/handler"
)

func registerMemberRoutes(r *echo.Echo, h *handler.Handlers) {
	members := r.Group("/members")

	members.GET("", h.Member.ListMembers())
	members.POST("", h.Member.CreateMember())
	members.GET("/:id", h.Member.GetMember())
	members.PUT("/:id", h.Member.UpdateMember())
	members.DELETE("/:id", h.Member.DeleteMember())

	members.GET("/:id/workoutsessions", h.Workout.ListWorkoutSessionsByMember())
}

func registerWorkoutRoutes(r *echo.Echo, h *handler.Handlers) {
	sessions := r.Group("/workoutsessions")

	sessions.GET("", h.Workout.ListWorkoutSessions())
	sessions.POST("", h.Workout.CreateWorkoutSession())

	// GET takes a member id, PUT and DELETE a session id.
	sessions.GET("/:id", h.Workout.ListWorkoutSessionsByMember())
	sessions.PUT("/:id", h.Workout.UpdateWorkoutSession())
	sessions.DELETE("/:id", h.Workout.DeleteWorkoutSession())
}
