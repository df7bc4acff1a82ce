package service

import (
	"context"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/errs"
	"github.com/deppfellow/gym-api/internal/model/workout"
)

// WorkoutRepository is the storage the workout session operations need.
type WorkoutRepository interface {
	ListWorkoutSessions(ctx context.Context, q database.Querier) ([]workout.WorkoutSession, error)
	ListWorkoutSessionsByMember(ctx context.Context, q database.Querier, memberID int64) ([]workout.WorkoutSession, error)
	CreateWorkoutSession(ctx context.Context, q database.Querier, payload *workout.CreateWorkoutSessionPayload) (*workout.WorkoutSession, error)
	UpdateWorkoutSession(ctx context.Context, q database.Querier, payload *workout.UpdateWorkoutSessionPayload) (*workout.WorkoutSession, error)
	WorkoutSessionExists(ctx context.Context, q database.Querier, id int64) (bool, error)
	DeleteWorkoutSession(ctx context.Context, q database.Querier, id int64) (int64, error)
}

type WorkoutService struct {
	db   database.Provider
	repo WorkoutRepository
}

func NewWorkoutService(db database.Provider, repo WorkoutRepository) *WorkoutService {
	return &WorkoutService{
		db:   db,
		repo: repo,
	}
}

func (s *WorkoutService) ListWorkoutSessions(ctx context.Context) ([]workout.WorkoutSession, error) {
	var sessions []workout.WorkoutSession
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		sessions, err = s.repo.ListWorkoutSessions(ctx, q)
		return err
	})
	return sessions, err
}

// ListWorkoutSessionsByMember returns the member's sessions. An unknown
// member yields an empty list, not a 404.
func (s *WorkoutService) ListWorkoutSessionsByMember(ctx context.Context, memberID int64) ([]workout.WorkoutSession, error) {
	var sessions []workout.WorkoutSession
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		sessions, err = s.repo.ListWorkoutSessionsByMember(ctx, q, memberID)
		return err
	})
	return sessions, err
}

func (s *WorkoutService) CreateWorkoutSession(ctx context.Context, payload *workout.CreateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	var session *workout.WorkoutSession
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		session, err = s.repo.CreateWorkoutSession(ctx, q, payload)
		return err
	})
	return session, err
}

func (s *WorkoutService) UpdateWorkoutSession(ctx context.Context, payload *workout.UpdateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	var session *workout.WorkoutSession
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		session, err = s.repo.UpdateWorkoutSession(ctx, q, payload)
		return err
	})
	return session, err
}

func (s *WorkoutService) DeleteWorkoutSession(ctx context.Context, id int64) error {
	return s.db.WithConn(ctx, func(q database.Querier) error {
		exists, err := s.repo.WorkoutSessionExists(ctx, q, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFoundError("Workout Session not found", true, nil)
		}

		deleted, err := s.repo.DeleteWorkoutSession(ctx, q, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errs.NewNotFoundError("Workout Session not found", true, nil)
		}
		return nil
	})
}
