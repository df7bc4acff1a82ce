// Package workout defines the WorkoutSession entity and its request
// payloads.
package workout

// WorkoutSession is one logged exercise event of a member.
//
// SessionDate is always YYYY-MM-DD and SessionTime HH:MM:SS on the way
// out; the repository formats both in SQL.
type WorkoutSession struct {
	SessionID       int64  `json:"session_id" db:"session_id"`
	MemberID        int64  `json:"member_id" db:"member_id"`
	SessionDate     string `json:"session_date" db:"session_date"`
	SessionTime     string `json:"session_time" db:"session_time"`
	Activity        string `json:"activity" db:"activity"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned" db:"calories_burned"`
}

// SessionFields are the mutable fields shared by create and update.
//
// session_time accepts HH:MM or HH:MM:SS.
type SessionFields struct {
	MemberID        *int64 `json:"member_id" validate:"required,min=1"`
	SessionDate     string `json:"session_date" validate:"required,datetime=2006-01-02"`
	SessionTime     string `json:"session_time" validate:"required,clock"`
	Activity        string `json:"activity" validate:"required,min=1,max=255"`
	DurationMinutes *int   `json:"duration_minutes" validate:"required,min=0"`
	CaloriesBurned  *int   `json:"calories_burned" validate:"required,min=0"`
}

type CreateWorkoutSessionPayload struct {
	SessionFields
}

type UpdateWorkoutSessionPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
	SessionFields
}

type DeleteWorkoutSessionPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

// ListWorkoutSessionsByMemberPayload takes the member id from the path.
type ListWorkoutSessionsByMemberPayload struct {
	MemberID int64 `param:"id" json:"-" validate:"required,min=1"`
}

type ListWorkoutSessionsPayload struct{}
