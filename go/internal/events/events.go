package events

import "time"

// Event types shared between the domain packages and the gateway

// EventType names a message on the sync channel
type EventType string

const (
	// Client to server
	EventTypeAuthenticate EventType = "authenticate"
	EventTypeTimerSync    EventType = "timer:sync"
	EventTypePlantSync    EventType = "plant:sync"

	// Server to client
	EventTypeAuthenticated EventType = "authenticated"
	EventTypeTimerUpdate   EventType = "timer:update"
	EventTypePlantUpdate   EventType = "plant:update"
)

// UpdateFor returns the server event a client sync message is relayed as
func UpdateFor(t EventType) (EventType, bool) {
	switch t {
	case EventTypeTimerSync:
		return EventTypeTimerUpdate, true
	case EventTypePlantSync:
		return EventTypePlantUpdate, true
	default:
		return "", false
	}
}

// Notifier delivers a server-originated event to every connection of a user
type Notifier interface {
	NotifyUser(userID int64, eventType EventType, payload any)
}

// NopNotifier drops every event
type NopNotifier struct{}

func (NopNotifier) NotifyUser(int64, EventType, any) {}

// Timer actions carried by server-originated timer:update events
const (
	TimerActionStarted   = "started"
	TimerActionCompleted = "completed"
)

// TimerStartedPayload is the timer:update payload for a started session
type TimerStartedPayload struct {
	Action          string    `json:"action"`
	SessionID       int64     `json:"session_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	SessionType     string    `json:"session_type"`
}

// TimerCompletedPayload is the timer:update payload for a completed session
type TimerCompletedPayload struct {
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	SessionID   int64     `json:"session_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// AuthenticatedPayload answers an authenticate message
type AuthenticatedPayload struct {
	Success bool      `json:"success"`
	User    *UserInfo `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// UserInfo identifies the user a connection is bound to
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
