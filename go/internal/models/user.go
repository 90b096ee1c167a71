package models

import (
	"time"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStats is the per-user rollup of completed pomodoro sessions
type UserStats struct {
	UserID          int64   `json:"-"`
	TotalSessions   int     `json:"total_sessions"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
	LastSessionDate *string `json:"last_session_date"` // YYYY-MM-DD, UTC
}
