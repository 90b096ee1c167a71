package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/rs/zerolog/log"
)

// Service is the sync relay: WebSocket connections, snapshot state and the
// optional cross-instance bridge
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	bridge            *Bridge
}

// Config holds configuration for the relay
type Config struct {
	ConnectionConfig ConnectionConfig
	NatsURL          string // empty keeps the relay local to this instance
}

// DefaultConfig returns default configuration for the relay
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new relay service. snapshots may be nil.
func NewService(config Config, verifier auth.Verifier, snapshots SnapshotStore) (*Service, error) {
	connectionManager := NewConnectionManager(config.ConnectionConfig, verifier, snapshots)

	s := &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		stateHandler:      NewStateHandler(snapshots),
	}

	if config.NatsURL != "" {
		bridge, err := NewBridge(connectionManager, DefaultBridgeConfig(config.NatsURL))
		if err != nil {
			return nil, fmt.Errorf("failed to create relay bridge: %w", err)
		}
		s.bridge = bridge
	}
	return s, nil
}

// Notifier returns the manager so apps can push updates to rooms
func (s *Service) Notifier() *ConnectionManager {
	return s.connectionManager
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) {
	log.Info().Bool("bridged", s.bridge != nil).Msg("starting sync relay")

	s.connectionManager.Start(ctx)

	if s.bridge != nil {
		if err := s.bridge.Close(); err != nil {
			log.Error().Err(err).Msg("failed to stop relay bridge")
		}
	}
	log.Info().Msg("sync relay stopped")
}

// RegisterRoutes registers the relay routes. requireAuth guards the state
// endpoint; sockets authenticate themselves.
func (s *Service) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/ws", s.wsHandler.HandleConnection)
	r.Get("/ws/stats", s.wsHandler.HandleConnectionStats)
	r.With(requireAuth).Get("/api/timer/state", s.stateHandler.HandleTimerState)
}
