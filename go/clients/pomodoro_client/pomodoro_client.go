package pomodoro_client

import (
	"context"
	"fmt"
	"sync"

	"github.com/k1ngsalm0n/pomodoro-plant/go/clients"
)

type PomodoroClient struct {
	*clients.BaseClient

	mu    sync.RWMutex
	token string
}

func NewPomodoroClient(baseURL string) *PomodoroClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PomodoroClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// Token returns the bearer token from the last register or login
func (c *PomodoroClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a bearer token obtained elsewhere
func (c *PomodoroClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.SetHeader(AuthorizationHeader, "Bearer "+token)
}

func (c *PomodoroClient) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, RegisterEndpoint, username, password)
}

func (c *PomodoroClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, LoginEndpoint, username, password)
}

func (c *PomodoroClient) authenticate(ctx context.Context, endpoint, username, password string) (*AuthResponse, error) {
	var response AuthResponse
	if err := c.Post(ctx, endpoint, Credentials{Username: username, Password: password}, &response); err != nil {
		return nil, fmt.Errorf("failed to authenticate as %s: %w", username, err)
	}
	c.SetToken(response.Token)
	return &response, nil
}

func (c *PomodoroClient) PlantState(ctx context.Context) (*Plant, error) {
	var plant Plant
	if err := c.Get(ctx, PlantStateEndpoint, &plant); err != nil {
		return nil, fmt.Errorf("failed to get plant state: %w", err)
	}
	return &plant, nil
}

// Grow advances the plant one stage. speciesID 0 lets the server pick.
func (c *PomodoroClient) Grow(ctx context.Context, speciesID int) (*GrowResult, error) {
	body := map[string]int{}
	if speciesID > 0 {
		body["speciesId"] = speciesID
	}
	var result GrowResult
	if err := c.Post(ctx, PlantGrowEndpoint, body, &result); err != nil {
		return nil, fmt.Errorf("failed to grow plant: %w", err)
	}
	return &result, nil
}

func (c *PomodoroClient) NewPlant(ctx context.Context) (*Plant, error) {
	var plant Plant
	if err := c.Post(ctx, PlantNewEndpoint, nil, &plant); err != nil {
		return nil, fmt.Errorf("failed to start new plant: %w", err)
	}
	return &plant, nil
}

func (c *PomodoroClient) Collection(ctx context.Context) (*Collection, error) {
	var collection Collection
	if err := c.Get(ctx, CollectionEndpoint, &collection); err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &collection, nil
}

func (c *PomodoroClient) Settings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.Get(ctx, SettingsEndpoint, &settings); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (c *PomodoroClient) StartSession(ctx context.Context, durationMinutes int, sessionType string) (*Session, error) {
	body := map[string]any{}
	if durationMinutes > 0 {
		body["duration_minutes"] = durationMinutes
	}
	if sessionType != "" {
		body["session_type"] = sessionType
	}
	var session Session
	if err := c.Post(ctx, StartSessionEndpoint, body, &session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &session, nil
}

func (c *PomodoroClient) CompleteSession(ctx context.Context, sessionID int64) error {
	if err := c.Post(ctx, CompleteSessionEndpoint, map[string]int64{"session_id": sessionID}, nil); err != nil {
		return fmt.Errorf("failed to complete session %d: %w", sessionID, err)
	}
	return nil
}

func (c *PomodoroClient) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.Get(ctx, StatsEndpoint, &stats); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

func (c *PomodoroClient) TimerState(ctx context.Context) (*TimerState, error) {
	var state TimerState
	if err := c.Get(ctx, TimerStateEndpoint, &state); err != nil {
		return nil, fmt.Errorf("failed to get timer state: %w", err)
	}
	return &state, nil
}
