package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// subjectPrefix is followed by the user id; subscribers use the wildcard form
const subjectPrefix = "pomodoro.sync.user."

// BridgeConfig holds configuration for the NATS relay bridge
type BridgeConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultBridgeConfig returns default bridge configuration for url
func DefaultBridgeConfig(url string) BridgeConfig {
	return BridgeConfig{
		URL:           url,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// bridgeMessage is what travels between gateway instances
type bridgeMessage struct {
	Instance   string `json:"instance"`
	Connection string `json:"connection,omitempty"`
	Event      *Event `json:"event"`
}

// Bridge fans room events out to every gateway instance over core NATS
type Bridge struct {
	connectionManager *ConnectionManager
	nc                *nats.Conn
	sub               *nats.Subscription
	instance          string
}

// NewBridge connects to NATS and installs itself as cm's publisher
func NewBridge(cm *ConnectionManager, config BridgeConfig) (*Bridge, error) {
	opts := []nats.Option{
		nats.Name("pomodoro-gateway"),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	b := newBridge(cm, nc)
	sub, err := nc.Subscribe(subjectPrefix+"*", b.handle)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe to %s*: %w", subjectPrefix, err)
	}
	b.sub = sub
	cm.SetPublisher(b)

	log.Info().
		Str("url", nc.ConnectedUrl()).
		Str("instance", b.instance).
		Msg("relay bridge connected")
	return b, nil
}

func newBridge(cm *ConnectionManager, nc *nats.Conn) *Bridge {
	return &Bridge{
		connectionManager: cm,
		nc:                nc,
		instance:          uuid.NewString(),
	}
}

// Subject returns the subject events of userID are published on
func Subject(userID int64) string {
	return subjectPrefix + strconv.FormatInt(userID, 10)
}

// Publish sends event to the other instances
func (b *Bridge) Publish(userID int64, event *Event, connectionID string) {
	data, err := json.Marshal(bridgeMessage{Instance: b.instance, Connection: connectionID, Event: event})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal bridge message")
		return
	}
	if err := b.nc.Publish(Subject(userID), data); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Str("event_type", string(event.Type)).
			Msg("failed to publish to NATS")
	}
}

// handle delivers events published by other instances to local rooms
func (b *Bridge) handle(msg *nats.Msg) {
	userID, err := strconv.ParseInt(strings.TrimPrefix(msg.Subject, subjectPrefix), 10, 64)
	if err != nil {
		log.Warn().Str("subject", msg.Subject).Msg("ignoring bridge message with bad subject")
		return
	}

	var bm bridgeMessage
	if err := json.Unmarshal(msg.Data, &bm); err != nil || bm.Event == nil {
		log.Warn().Str("subject", msg.Subject).Msg("ignoring malformed bridge message")
		return
	}
	if bm.Instance == b.instance {
		return
	}

	log.Debug().
		Str("instance", bm.Instance).
		Str("connection_id", bm.Connection).
		Int64("user_id", userID).
		Str("event_type", string(bm.Event.Type)).
		Msg("delivering bridged event")
	b.connectionManager.DeliverLocal(userID, bm.Event)
}

// Close unsubscribes and drains the NATS connection
func (b *Bridge) Close() error {
	if b.sub != nil {
		if err := b.sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe relay bridge")
		}
	}
	if err := b.nc.Drain(); err != nil {
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
