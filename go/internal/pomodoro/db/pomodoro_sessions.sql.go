package db

import (
	"context"
	"time"
)

const createSession = `-- name: CreateSession :one
INSERT INTO pomodoro_sessions (user_id, started_at, duration_minutes, session_type)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, started_at, completed_at, duration_minutes, session_type
`

type CreateSessionParams struct {
	UserID          int64
	StartedAt       time.Time
	DurationMinutes int32
	SessionType     string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (PomodoroSession, error) {
	row := q.db.QueryRowContext(ctx, createSession,
		arg.UserID,
		arg.StartedAt,
		arg.DurationMinutes,
		arg.SessionType,
	)
	var i PomodoroSession
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.StartedAt,
		&i.CompletedAt,
		&i.DurationMinutes,
		&i.SessionType,
	)
	return i, err
}

const completeSession = `-- name: CompleteSession :one
UPDATE pomodoro_sessions
SET completed_at = $3
WHERE id = $1 AND user_id = $2 AND completed_at IS NULL
RETURNING id, user_id, started_at, completed_at, duration_minutes, session_type
`

type CompleteSessionParams struct {
	ID          int64
	UserID      int64
	CompletedAt time.Time
}

func (q *Queries) CompleteSession(ctx context.Context, arg CompleteSessionParams) (PomodoroSession, error) {
	row := q.db.QueryRowContext(ctx, completeSession, arg.ID, arg.UserID, arg.CompletedAt)
	var i PomodoroSession
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.StartedAt,
		&i.CompletedAt,
		&i.DurationMinutes,
		&i.SessionType,
	)
	return i, err
}
