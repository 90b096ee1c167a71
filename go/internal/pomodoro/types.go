package pomodoro

import (
	"time"
)

const sessionNotFound = "Session not found"

// StartRequest is the body of POST /api/pomodoro/start. Missing fields take
// the study defaults.
type StartRequest struct {
	DurationMinutes *int   `json:"duration_minutes,omitempty" validate:"omitempty,gte=1,lte=240"`
	SessionType     string `json:"session_type,omitempty" validate:"omitempty,oneof=study break"`
}

// CompleteRequest is the body of POST /api/pomodoro/complete
type CompleteRequest struct {
	SessionID       int64 `json:"session_id,omitempty" validate:"gte=0"`
	LegacySessionID int64 `json:"sessionId,omitempty" validate:"gte=0"`
}

// ID returns the session id from either spelling
func (r CompleteRequest) ID() int64 {
	if r.SessionID != 0 {
		return r.SessionID
	}
	return r.LegacySessionID
}

// CompleteResult is returned for a completed session
type CompleteResult struct {
	Message     string    `json:"message"`
	SessionID   int64     `json:"session_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// Settings are the countdown lengths in minutes
type Settings struct {
	Study                  int    `json:"study"`
	ShortBreak             int    `json:"short_break"`
	LongBreak              int    `json:"long_break"`
	SessionsUntilLongBreak int    `json:"sessions_until_long_break"`
	User                   string `json:"user,omitempty"`
}
