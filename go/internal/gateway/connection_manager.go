package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/rs/zerolog/log"
)

// SnapshotStore keeps the newest relayed timer snapshot per user
type SnapshotStore interface {
	SaveTimerSnapshot(ctx context.Context, userID int64, version uint64, payload []byte) (bool, error)
	GetTimerSnapshot(ctx context.Context, userID int64) (*models.TimerSnapshot, error)
}

// Publisher forwards room events to other gateway instances. connectionID
// names the sending socket for relayed client messages and is empty for
// server notifications.
type Publisher interface {
	Publish(userID int64, event *Event, connectionID string)
}

// ConnectionManager manages WebSocket connections grouped into per-user rooms
type ConnectionManager struct {
	// Authenticated connections by room, and every live connection
	rooms map[string]map[*Connection]bool
	conns map[*Connection]bool
	mu    sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	// Connection configuration
	config ConnectionConfig

	verifier  auth.Verifier
	snapshots SnapshotStore
	publisher Publisher

	// Event broadcasting
	broadcastCh chan BroadcastMessage
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	// Connection metadata
	ConnectedAt time.Time

	mu       sync.RWMutex
	userID   int64
	username string
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	StoreTimeout    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage represents a message to broadcast to a room
type BroadcastMessage struct {
	Room      string
	Event     *Event
	ExcludeID string // Optional: connection that must not receive the event
}

// ConnectionStats is served on /ws/stats
type ConnectionStats struct {
	TotalConnections         int `json:"total_connections"`
	AuthenticatedConnections int `json:"authenticated_connections"`
	ActiveRooms              int `json:"active_rooms"`
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		StoreTimeout:    5 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  64,
		CheckOrigin: func(r *http.Request) bool {
			// Browser, Electron and Android shells connect from their own origins
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager. snapshots
// may be nil.
func NewConnectionManager(config ConnectionConfig, verifier auth.Verifier, snapshots SnapshotStore) *ConnectionManager {
	return &ConnectionManager{
		rooms: make(map[string]map[*Connection]bool),
		conns: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		verifier:    verifier,
		snapshots:   snapshots,
		broadcastCh: make(chan BroadcastMessage, 1000),
	}
}

// SetPublisher installs the cross-instance publisher. Call before Start.
func (cm *ConnectionManager) SetPublisher(p Publisher) {
	cm.publisher = p
}

// Start begins processing broadcast messages
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket. A non-empty
// token authenticates the connection right away.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, token string) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	cm.registerConnection(connection)
	if token != "" {
		cm.authenticate(r.Context(), connection, token)
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Bool("authenticated", connection.Authenticated()).
		Msg("WebSocket connection established")

	return nil
}

// NotifyUser sends a server-originated event to every connection of a user
func (cm *ConnectionManager) NotifyUser(userID int64, eventType events.EventType, payload any) {
	event, err := NewEvent(eventType, userID, payload)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to build event")
		return
	}
	cm.enqueue(BroadcastMessage{Room: RoomFor(userID), Event: event})
	if cm.publisher != nil {
		cm.publisher.Publish(userID, event, "")
	}
}

// DeliverLocal sends an event from another instance to this instance's room
func (cm *ConnectionManager) DeliverLocal(userID int64, event *Event) {
	cm.enqueue(BroadcastMessage{Room: RoomFor(userID), Event: event})
}

// BroadcastToRoom queues an event for a room, skipping excludeID
func (cm *ConnectionManager) BroadcastToRoom(room string, event *Event, excludeID string) {
	cm.enqueue(BroadcastMessage{Room: room, Event: event, ExcludeID: excludeID})
}

func (cm *ConnectionManager) enqueue(message BroadcastMessage) {
	select {
	case cm.broadcastCh <- message:
	default:
		log.Warn().Str("room", message.Room).Msg("broadcast channel full, dropping message")
	}
}

// registerConnection adds a connection to the manager
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.conns[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.conns)).
		Msg("connection registered")
}

// joinRoom binds a connection to a user and moves it into the user's room
func (cm *ConnectionManager) joinRoom(conn *Connection, claims *auth.Claims) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.conns[conn] {
		return false
	}
	if prevID, ok := conn.User(); ok {
		cm.leaveLocked(conn, RoomFor(prevID))
	}

	conn.mu.Lock()
	conn.userID = claims.ID
	conn.username = claims.Username
	conn.mu.Unlock()

	room := RoomFor(claims.ID)
	if cm.rooms[room] == nil {
		cm.rooms[room] = make(map[*Connection]bool)
	}
	cm.rooms[room][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("room", room).
		Int("room_connections", len(cm.rooms[room])).
		Msg("connection joined room")
	return true
}

func (cm *ConnectionManager) leaveLocked(conn *Connection, room string) {
	if connections, exists := cm.rooms[room]; exists {
		delete(connections, conn)
		// Clean up empty rooms
		if len(connections) == 0 {
			delete(cm.rooms, room)
		}
	}
}

// unregisterConnection removes a connection from the manager
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.conns[conn] {
		return
	}
	delete(cm.conns, conn)
	userID, authenticated := conn.User()
	if authenticated {
		cm.leaveLocked(conn, RoomFor(userID))
	}
	close(conn.Send)

	log.Info().
		Str("connection_id", conn.ID).
		Int64("user_id", userID).
		Msg("connection unregistered")
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	conns := make([]*Connection, 0, len(cm.conns))
	for conn := range cm.conns {
		conns = append(conns, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range conns {
		cm.unregisterConnection(conn)
	}
}

// sendTo queues data for one connection. Sends happen under the read lock so
// they never race with unregisterConnection closing the channel.
func (cm *ConnectionManager) sendTo(conn *Connection, data []byte) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.conns[conn] {
		return false
	}
	select {
	case conn.Send <- data:
		return true
	default:
		return false
	}
}

func (cm *ConnectionManager) sendEvent(conn *Connection, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}
	if !cm.sendTo(conn, data) {
		log.Warn().Str("connection_id", conn.ID).Str("event_type", string(event.Type)).Msg("dropping reply to slow connection")
	}
}

// handleBroadcast processes a broadcast message
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	// Marshal the event once
	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	var slow []*Connection
	delivered := 0

	cm.mu.RLock()
	for conn := range cm.rooms[message.Room] {
		if conn.ID == message.ExcludeID {
			continue
		}
		select {
		case conn.Send <- eventData:
			delivered++
		default:
			slow = append(slow, conn)
		}
	}
	cm.mu.RUnlock()

	// Connection is slow or dead, close it
	for _, conn := range slow {
		log.Warn().
			Str("connection_id", conn.ID).
			Str("room", message.Room).
			Msg("connection send buffer full, closing connection")
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}

	log.Debug().
		Str("event_type", string(message.Event.Type)).
		Str("room", message.Room).
		Int("connections", delivered).
		Msg("event broadcasted")
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalConnections: len(cm.conns),
		ActiveRooms:      len(cm.rooms),
	}
	for _, connections := range cm.rooms {
		stats.AuthenticatedConnections += len(connections)
	}
	return stats
}

// authenticate verifies token, joins the user's room and replies with the
// outcome. A stored timer snapshot follows a successful authentication.
func (cm *ConnectionManager) authenticate(ctx context.Context, conn *Connection, token string) {
	var reply events.AuthenticatedPayload

	claims, err := cm.verifier.Verify(token)
	switch {
	case err != nil:
		reply.Error = apperr.Message(err)
	case !cm.joinRoom(conn, claims):
		return
	default:
		reply.Success = true
		reply.User = &events.UserInfo{ID: claims.ID, Username: claims.Username}
	}

	event, err := NewEvent(events.EventTypeAuthenticated, 0, reply)
	if err != nil {
		log.Error().Err(err).Msg("failed to build authenticated reply")
		return
	}
	if reply.Success {
		event.UserID = claims.ID
	}
	cm.sendEvent(conn, event)

	if !reply.Success {
		log.Debug().Str("connection_id", conn.ID).Str("error", reply.Error).Msg("socket authentication failed")
		return
	}
	log.Info().Str("connection_id", conn.ID).Int64("user_id", claims.ID).Msg("socket authenticated")
	cm.sendStoredSnapshot(ctx, conn, claims.ID)
}

func (cm *ConnectionManager) sendStoredSnapshot(ctx context.Context, conn *Connection, userID int64) {
	if cm.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cm.config.StoreTimeout)
	defer cancel()

	snap, err := cm.snapshots.GetTimerSnapshot(ctx, userID)
	if apperr.IsNotFound(err) {
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load timer snapshot")
		return
	}
	cm.sendEvent(conn, newRawEvent(events.EventTypeTimerUpdate, userID, snap.Payload))
}

// relay forwards a client sync message verbatim to the other connections in
// the sender's room
func (cm *ConnectionManager) relay(conn *Connection, msg ClientMessage, updateType events.EventType) {
	userID, ok := conn.User()
	if !ok {
		log.Debug().
			Str("connection_id", conn.ID).
			Str("event_type", string(msg.Type)).
			Msg("dropping sync from unauthenticated connection")
		return
	}

	event := newRawEvent(updateType, userID, msg.Data)
	cm.BroadcastToRoom(RoomFor(userID), event, conn.ID)
	if cm.publisher != nil {
		cm.publisher.Publish(userID, event, conn.ID)
	}

	if msg.Type == events.EventTypeTimerSync {
		cm.storeSnapshot(userID, msg.Data)
	}
}

func (cm *ConnectionManager) storeSnapshot(userID int64, data json.RawMessage) {
	if cm.snapshots == nil {
		return
	}
	version := snapshotVersion(data)
	if version == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.config.StoreTimeout)
	defer cancel()
	if _, err := cm.snapshots.SaveTimerSnapshot(ctx, userID, version, data); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Uint64("version", version).Msg("failed to store timer snapshot")
	}
}

// User returns the user the connection authenticated as
func (c *Connection) User() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.userID != 0
}

// Authenticated reports whether the connection joined a room
func (c *Connection) Authenticated() bool {
	_, ok := c.User()
	return ok
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage processes messages received from the client
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("connection_id", c.ID).Msg("ignoring malformed client message")
		return
	}

	if msg.Type == events.EventTypeAuthenticate {
		c.Manager.authenticate(context.Background(), c, tokenFromData(msg.Data))
		return
	}
	if update, ok := events.UpdateFor(msg.Type); ok {
		c.Manager.relay(c, msg, update)
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("event_type", string(msg.Type)).
		Msg("ignoring unknown client message")
}
