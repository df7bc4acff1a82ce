package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/model/member"
	"github.com/deppfellow/gym-api/internal/sqlerr"
)

const membersTable = "members"

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (r *MemberRepository) ListMembers(ctx context.Context, q database.Querier) ([]member.Member, error) {
	stmt := `
		SELECT
			id,
			name,
			age
		FROM
			members
		ORDER BY
			id
	`

	rows, err := q.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list members query: %w", err)
	}

	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[member.Member])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", membersTable, err)
	}

	return members, nil
}

func (r *MemberRepository) GetMember(ctx context.Context, q database.Querier, id int64) (*member.Member, error) {
	stmt := `
		SELECT
			id,
			name,
			age
		FROM
			members
		WHERE
			id = $1
	`

	rows, err := q.Query(ctx, stmt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get member query for id=%d: %w", id, err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[member.Member])
	if err != nil {
		return nil, sqlerr.WithTable(membersTable, fmt.Errorf("failed to collect member id=%d: %w", id, err))
	}

	return &m, nil
}

func (r *MemberRepository) CreateMember(ctx context.Context, q database.Querier, payload *member.CreateMemberPayload) (*member.Member, error) {
	stmt := `
		INSERT INTO
			members (name, age)
		VALUES
			($1, $2)
		RETURNING
			id,
			name,
			age
	`

	rows, err := q.Query(ctx, stmt, payload.Name, *payload.Age)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create member query: %w", err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[member.Member])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:%s: %w", membersTable, err)
	}

	return &m, nil
}

// UpdateMember overwrites every mutable field. A missing row surfaces as
// pgx.ErrNoRows annotated with the table.
func (r *MemberRepository) UpdateMember(ctx context.Context, q database.Querier, payload *member.UpdateMemberPayload) (*member.Member, error) {
	stmt := `
		UPDATE members
		SET
			name = $1,
			age = $2
		WHERE
			id = $3
		RETURNING
			id,
			name,
			age
	`

	rows, err := q.Query(ctx, stmt, payload.Name, *payload.Age, payload.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update member query for id=%d: %w", payload.ID, err)
	}

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[member.Member])
	if err != nil {
		return nil, sqlerr.WithTable(membersTable, fmt.Errorf("failed to collect updated member id=%d: %w", payload.ID, err))
	}

	return &m, nil
}

func (r *MemberRepository) MemberExists(ctx context.Context, q database.Querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check member id=%d exists: %w", id, err)
	}
	return exists, nil
}

// DeleteMember removes the row and reports how many rows went away.
func (r *MemberRepository) DeleteMember(ctx context.Context, q database.Querier, id int64) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete member query for id=%d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
