package db

import (
	"database/sql"
	"time"
)

type PomodoroSession struct {
	ID              int64
	UserID          int64
	StartedAt       time.Time
	CompletedAt     sql.NullTime
	DurationMinutes int32
	SessionType     string
}
