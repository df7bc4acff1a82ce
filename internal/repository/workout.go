package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/gym-api/internal/database"
	"github.com/deppfellow/gym-api/internal/model/workout"
	"github.com/deppfellow/gym-api/internal/sqlerr"
)

const workoutSessionsTable = "workoutsessions"

// sessionColumns renders DATE and TIME as the strings the API exposes.
const sessionColumns = `
	session_id,
	member_id,
	to_char(session_date, 'YYYY-MM-DD') AS session_date,
	to_char(session_time, 'HH24:MI:SS') AS session_time,
	activity,
	duration_minutes,
	calories_burned
`

type WorkoutRepository struct{}

func NewWorkoutRepository() *WorkoutRepository {
	return &WorkoutRepository{}
}

func (r *WorkoutRepository) ListWorkoutSessions(ctx context.Context, q database.Querier) ([]workout.WorkoutSession, error) {
	stmt := `SELECT ` + sessionColumns + ` FROM workoutsessions ORDER BY session_id`

	rows, err := q.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list workout sessions query: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[workout.WorkoutSession])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", workoutSessionsTable, err)
	}

	return sessions, nil
}

func (r *WorkoutRepository) ListWorkoutSessionsByMember(ctx context.Context, q database.Querier, memberID int64) ([]workout.WorkoutSession, error) {
	stmt := `SELECT ` + sessionColumns + ` FROM workoutsessions WHERE member_id = $1 ORDER BY session_id`

	rows, err := q.Query(ctx, stmt, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list workout sessions query for member_id=%d: %w", memberID, err)
	}

	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[workout.WorkoutSession])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:%s: %w", workoutSessionsTable, err)
	}

	return sessions, nil
}

func (r *WorkoutRepository) CreateWorkoutSession(ctx context.Context, q database.Querier, payload *workout.CreateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	stmt := `
		INSERT INTO
			workoutsessions (
				member_id,
				session_date,
				session_time,
				activity,
				duration_minutes,
				calories_burned
			)
		VALUES
			($1, $2::date, $3::time, $4, $5, $6)
		RETURNING` + sessionColumns

	rows, err := q.Query(ctx, stmt,
		*payload.MemberID,
		payload.SessionDate,
		payload.SessionTime,
		payload.Activity,
		*payload.DurationMinutes,
		*payload.CaloriesBurned,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create workout session query: %w", err)
	}

	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[workout.WorkoutSession])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:%s: %w", workoutSessionsTable, err)
	}

	return &s, nil
}

func (r *WorkoutRepository) UpdateWorkoutSession(ctx context.Context, q database.Querier, payload *workout.UpdateWorkoutSessionPayload) (*workout.WorkoutSession, error) {
	stmt := `
		UPDATE workoutsessions
		SET
			member_id = $1,
			session_date = $2::date,
			session_time = $3::time,
			activity = $4,
			duration_minutes = $5,
			calories_burned = $6
		WHERE
			session_id = $7
		RETURNING` + sessionColumns

	rows, err := q.Query(ctx, stmt,
		*payload.MemberID,
		payload.SessionDate,
		payload.SessionTime,
		payload.Activity,
		*payload.DurationMinutes,
		*payload.CaloriesBurned,
		payload.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute update workout session query for session_id=%d: %w", payload.ID, err)
	}

	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[workout.WorkoutSession])
	if err != nil {
		return nil, sqlerr.WithTable(workoutSessionsTable, fmt.Errorf("failed to collect updated workout session session_id=%d: %w", payload.ID, err))
	}

	return &s, nil
}

func (r *WorkoutRepository) WorkoutSessionExists(ctx context.Context, q database.Querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workoutsessions WHERE session_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check workout session session_id=%d exists: %w", id, err)
	}
	return exists, nil
}

func (r *WorkoutRepository) DeleteWorkoutSession(ctx context.Context, q database.Querier, id int64) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM workoutsessions WHERE session_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete workout session query for session_id=%d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
