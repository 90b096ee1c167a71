package models

import "time"

// SessionType represents the kind of pomodoro session
type SessionType string

const (
	SessionTypeStudy SessionType = "study"
	SessionTypeBreak SessionType = "break"
)

// PomodoroSession is one entry of the append-only session log
type PomodoroSession struct {
	ID              int64       `json:"session_id"`
	UserID          int64       `json:"-"`
	StartedAt       time.Time   `json:"started_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	DurationMinutes int         `json:"duration_minutes"`
	Type            SessionType `json:"session_type"`
}
