package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
)

// Event is the envelope of every server to client message
type Event struct {
	ID        string           `json:"id"`                // Event UUID
	Type      events.EventType `json:"type"`              // Event type
	UserID    int64            `json:"user_id,omitempty"` // Room owner
	Timestamp time.Time        `json:"timestamp"`         // Event creation time
	Data      json.RawMessage  `json:"data"`              // Event-specific payload
}

// ClientMessage is what a socket sends to the server
type ClientMessage struct {
	Type events.EventType `json:"type"`
	Data json.RawMessage  `json:"data"`
}

// NewEvent marshals payload into a fresh event
func NewEvent(eventType events.EventType, userID int64, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return newRawEvent(eventType, userID, data), nil
}

func newRawEvent(eventType events.EventType, userID int64, data json.RawMessage) *Event {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// RoomFor returns the room every connection of a user joins
func RoomFor(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// tokenFromData accepts the authenticate payload either as a bare token
// string or as {"token": "..."}
func tokenFromData(data json.RawMessage) string {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		return token
	}
	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.Token
	}
	return ""
}

// snapshotVersion reads the version of a timer:sync payload; 0 when absent
func snapshotVersion(data json.RawMessage) uint64 {
	var v struct {
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0
	}
	return v.Version
}
