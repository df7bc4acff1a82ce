package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gym-api/internal/model/workout"
	"github.com/deppfellow/gym-api/internal/server"
)

// WorkoutService is the business API behind the workout session routes.
type WorkoutService interface {
	ListWorkoutSessions(ctx context.Context) ([]workout.WorkoutSession, error)
	ListWorkoutSessionsByMember(ctx context.Context, memberID int64) ([]workout.WorkoutSession, error)
	CreateWorkoutSession(ctx context.Context, payload *workout.CreateWorkoutSessionPayload) (*workout.WorkoutSession, error)
	UpdateWorkoutSession(ctx context.Context, payload *workout.UpdateWorkoutSessionPayload) (*workout.WorkoutSession, error)
	DeleteWorkoutSession(ctx context.Context, id int64) error
}

type WorkoutHandler struct {
	Handler
	workoutService WorkoutService
}

func NewWorkoutHandler(s *server.Server, workoutService WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		Handler:        NewHandler(s),
		workoutService: workoutService,
	}
}

func (h *WorkoutHandler) ListWorkoutSessions() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, _ *workout.ListWorkoutSessionsPayload) ([]workout.WorkoutSession, error) {
			return h.workoutService.ListWorkoutSessions(c.Request().Context())
		},
		http.StatusOK,
	)
}

// ListWorkoutSessionsByMember serves both GET /workoutsessions/:id, where
// the id is a member id, and GET /members/:id/workoutsessions.
func (h *WorkoutHandler) ListWorkoutSessionsByMember() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *workout.ListWorkoutSessionsByMemberPayload) ([]workout.WorkoutSession, error) {
			return h.workoutService.ListWorkoutSessionsByMember(c.Request().Context(), payload.MemberID)
		},
		http.StatusOK,
	)
}

func (h *WorkoutHandler) CreateWorkoutSession() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *workout.CreateWorkoutSessionPayload) (MutationResponse[*workout.WorkoutSession], error) {
			s, err := h.workoutService.CreateWorkoutSession(c.Request().Context(), payload)
			if err != nil {
				return MutationResponse[*workout.WorkoutSession]{}, err
			}
			return MutationResponse[*workout.WorkoutSession]{Message: "Workout session added successfully", Data: s}, nil
		},
		http.StatusCreated,
	)
}

func (h *WorkoutHandler) UpdateWorkoutSession() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *workout.UpdateWorkoutSessionPayload) (MutationResponse[*workout.WorkoutSession], error) {
			s, err := h.workoutService.UpdateWorkoutSession(c.Request().Context(), payload)
			if err != nil {
				return MutationResponse[*workout.WorkoutSession]{}, err
			}
			return MutationResponse[*workout.WorkoutSession]{Message: "Workout session updated successfully", Data: s}, nil
		},
		http.StatusOK,
	)
}

func (h *WorkoutHandler) DeleteWorkoutSession() echo.HandlerFunc {
	return Handle(
		func(c echo.Context, payload *workout.DeleteWorkoutSessionPayload) (MessageResponse, error) {
			if err := h.workoutService.DeleteWorkoutSession(c.Request().Context(), payload.ID); err != nil {
				return MessageResponse{}, err
			}
			return MessageResponse{Message: "Workout session deleted successfully"}, nil
		},
		http.StatusOK,
	)
}
