package service

import (
	"context"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/errs"
	"github.com/deppfellow/gym-api/internal/model/member"
)

// MemberRepository is the storage the member operations need.
type MemberRepository interface {
	ListMembers(ctx context.Context, q database.Querier) ([]member.Member, error)
	GetMember(ctx context.Context, q database.Querier, id int64) (*member.Member, error)
	CreateMember(ctx context.Context, q database.Querier, payload *member.CreateMemberPayload) (*member.Member, error)
	UpdateMember(ctx context.Context, q database.Querier, payload *member.UpdateMemberPayload) (*member.Member, error)
	MemberExists(ctx context.Context, q database.Querier, id int64) (bool, error)
	DeleteMember(ctx context.Context, q database.Querier, id int64) (int64, error)
}

type MemberService struct {
	db   database.Provider
	repo MemberRepository
}

func NewMemberService(db database.Provider, repo MemberRepository) *MemberService {
	return &MemberService{
		db:   db,
		repo: repo,
	}
}

func (s *MemberService) ListMembers(ctx context.Context) ([]member.Member, error) {
	var members []member.Member
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		members, err = s.repo.ListMembers(ctx, q)
		return err
	})
	return members, err
}

func (s *MemberService) GetMember(ctx context.Context, id int64) (*member.Member, error) {
	var m *member.Member
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		m, err = s.repo.GetMember(ctx, q, id)
		return err
	})
	return m, err
}

func (s *MemberService) CreateMember(ctx context.Context, payload *member.CreateMemberPayload) (*member.Member, error) {
	var m *member.Member
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		m, err = s.repo.CreateMember(ctx, q, payload)
		return err
	})
	return m, err
}

func (s *MemberService) UpdateMember(ctx context.Context, payload *member.UpdateMemberPayload) (*member.Member, error) {
	var m *member.Member
	err := s.db.WithConn(ctx, func(q database.Querier) error {
		var err error
		m, err = s.repo.UpdateMember(ctx, q, payload)
		return err
	})
	return m, err
}

// DeleteMember checks that the member exists before deleting it, on the
// same connection. Workout sessions of the member are left in place.
func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	return s.db.WithConn(ctx, func(q database.Querier) error {
		exists, err := s.repo.MemberExists(ctx, q, id)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NewNotFoundError("Member not found", true, nil)
		}

		// A concurrent delete may win between the two statements.
		deleted, err := s.repo.DeleteMember(ctx, q, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errs.NewNotFoundError("Member not found", true, nil)
		}
		return nil
	})
}
