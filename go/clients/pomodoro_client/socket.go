package pomodoro_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
)

// Event is a message pushed by the sync relay
type Event struct {
	ID        string           `json:"id"`
	Type      events.EventType `json:"type"`
	UserID    int64            `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Data      json.RawMessage  `json:"data"`
}

type outgoing struct {
	Type events.EventType `json:"type"`
	Data any              `json:"data"`
}

// Socket is a connection to the sync relay
type Socket struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

// SocketURL turns an http(s) base URL into the relay URL
func SocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + SocketEndpoint
	u.RawQuery = ""
	return u.String(), nil
}

// DialSocket connects to the relay and authenticates with the client's
// token as the first message, keeping it out of the URL
func (c *PomodoroClient) DialSocket(ctx context.Context) (*Socket, error) {
	wsURL, err := SocketURL(c.BaseURL())
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay: %w", err)
	}
	socket := &Socket{conn: conn}
	if err := socket.Authenticate(c.Token()); err != nil {
		conn.Close()
		return nil, err
	}
	return socket, nil
}

// Next blocks until the relay pushes an event
func (s *Socket) Next() (*Event, error) {
	var event Event
	if err := s.conn.ReadJSON(&event); err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}
	return &event, nil
}

// Send writes a client message; data is marshalled as is
func (s *Socket) Send(eventType events.EventType, data any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(outgoing{Type: eventType, Data: data}); err != nil {
		return fmt.Errorf("failed to send %s: %w", eventType, err)
	}
	return nil
}

// Authenticate sends the post-connect authenticate message
func (s *Socket) Authenticate(token string) error {
	return s.Send(events.EventTypeAuthenticate, map[string]string{"token": token})
}

func (s *Socket) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return s.conn.Close()
}
