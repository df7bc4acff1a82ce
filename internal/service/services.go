package service

import (
	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/repository"
	"github.com/deppfellow/gym-api/internal/server"
)

type Services struct {
	Member  *MemberService
	Workout *WorkoutService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var provider database.Provider = s.DB

	return &Services{
		Member:  NewMemberService(provider, repos.Member),
		Workout: NewWorkoutService(provider, repos.Workout),
	}
}
