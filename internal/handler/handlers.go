package handler

import (
	"github.com/deppfellow/gym-api/internal/server"
	"github.com/deppfellow/gym-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Member  *MemberHandler
	Workout *WorkoutHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Member:  NewMemberHandler(s, services.Member),
		Workout: NewWorkoutHandler(s, services.Workout),
	}
}
