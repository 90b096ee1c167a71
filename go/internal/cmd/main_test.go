package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/gateway"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
)

type testServer struct {
	url string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &Config{
		JWTSecret:   "test-secret",
		Store:       storeMemory,
		CORSOrigins: []string{"*"},
		Timer:       timer.DefaultConfig(),
	}
	clock := clockwork.NewRealClock()
	services, err := setupServices(cfg, memoryStores(clock), clock)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go services.Gateway.Start(ctx)

	srv := httptest.NewServer(setupRouter(cfg, services))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &testServer{url: srv.URL}
}

// call sends a JSON request and decodes the response into out when non-nil
func (s *testServer) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, s.url+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type growResponse struct {
	SpeciesID    int    `json:"species_id"`
	PlantType    string `json:"plant_type"`
	GrowthStage  int    `json:"growth_stage"`
	IsFullyGrown bool   `json:"is_fully_grown"`
	IsNew        bool   `json:"isNew"`
}

func register(t *testing.T, s *testServer, username string) string {
	t.Helper()
	var auth struct {
		Message  string `json:"message"`
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	status := s.call(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "hunter22",
	}, &auth)
	if status != http.StatusOK || auth.Token == "" || auth.Username != username {
		t.Fatalf("register status = %d, response = %+v", status, auth)
	}
	return auth.Token
}

func TestPlantLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "ana")

	var state growResponse
	if status := s.call(t, http.MethodGet, "/api/plant/state", token, nil, &state); status != http.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	if state.GrowthStage != 0 || state.SpeciesID < 1 || state.SpeciesID > 30 || state.PlantType == "" {
		t.Fatalf("fresh plant = %+v", state)
	}

	for step := 1; step <= 4; step++ {
		var grown growResponse
		if status := s.call(t, http.MethodPost, "/api/plant/grow", token, map[string]int{}, &grown); status != http.StatusOK {
			t.Fatalf("grow %d status = %d", step, status)
		}
		if grown.GrowthStage != step || grown.SpeciesID != state.SpeciesID {
			t.Fatalf("grow %d = %+v", step, grown)
		}
		if grown.IsFullyGrown != (step == 4) || grown.IsNew != (step == 4) {
			t.Fatalf("grow %d flags = %+v", step, grown)
		}
	}

	var collection struct {
		Plants []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"plants"`
		TotalAvailable int `json:"total_available"`
		UnlockedCount  int `json:"unlocked_count"`
	}
	if status := s.call(t, http.MethodGet, "/api/user/collection", token, nil, &collection); status != http.StatusOK {
		t.Fatalf("collection status = %d", status)
	}
	if collection.UnlockedCount != 1 || collection.TotalAvailable != 30 {
		t.Fatalf("collection = %+v", collection)
	}
	if len(collection.Plants) != 1 || collection.Plants[0].ID != state.SpeciesID {
		t.Fatalf("unlocked plants = %+v, want species %d", collection.Plants, state.SpeciesID)
	}
}

func TestSessionsFeedStats(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "ana")

	var started struct {
		SessionID int64 `json:"session_id"`
	}
	if status := s.call(t, http.MethodPost, "/api/pomodoro/start", token, nil, &started); status != http.StatusOK {
		t.Fatalf("start status = %d", status)
	}
	body := map[string]int64{"session_id": started.SessionID}
	if status := s.call(t, http.MethodPost, "/api/pomodoro/complete", token, body, nil); status != http.StatusOK {
		t.Fatalf("complete status = %d", status)
	}
	if status := s.call(t, http.MethodPost, "/api/pomodoro/complete", token, body, nil); status != http.StatusNotFound {
		t.Fatalf("second complete status = %d", status)
	}

	var stats struct {
		TotalSessions int `json:"total_sessions"`
		CurrentStreak int `json:"current_streak"`
	}
	if status := s.call(t, http.MethodGet, "/api/user/stats", token, nil, &stats); status != http.StatusOK {
		t.Fatalf("stats status = %d", status)
	}
	if stats.TotalSessions != 1 || stats.CurrentStreak != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	// Another user cannot close ana's sessions
	other := register(t, s, "ben")
	var foreign struct {
		SessionID int64 `json:"session_id"`
	}
	s.call(t, http.MethodPost, "/api/pomodoro/start", token, nil, &foreign)
	if status := s.call(t, http.MethodPost, "/api/pomodoro/complete", other, map[string]int64{"session_id": foreign.SessionID}, nil); status != http.StatusNotFound {
		t.Fatalf("foreign complete status = %d", status)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "ana")

	if status := s.call(t, http.MethodGet, "/api/plant/state", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", status)
	}
	if status := s.call(t, http.MethodGet, "/api/plant/state", "garbage", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", status)
	}
	creds := map[string]string{"username": "ana", "password": "wrong-password"}
	if status := s.call(t, http.MethodPost, "/api/login", "", creds, nil); status != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", status)
	}
	creds["password"] = "hunter22"
	if status := s.call(t, http.MethodPost, "/api/register", "", creds, nil); status != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d", status)
	}
	if status := s.call(t, http.MethodPost, "/api/login", "", creds, nil); status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	for _, path := range []string{"/health", "/api/health"} {
		if status := s.call(t, http.MethodGet, path, "", nil, nil); status != http.StatusOK {
			t.Fatalf("%s status = %d", path, status)
		}
	}
}

func TestGrowIsPushedToSockets(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "ana")

	wsURL := "ws" + strings.TrimPrefix(s.url, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() gateway.Event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var event gateway.Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatal(err)
		}
		return event
	}
	if event := read(); event.Type != events.EventTypeAuthenticated {
		t.Fatalf("first event = %s", event.Type)
	}

	if status := s.call(t, http.MethodPost, "/api/plant/grow", token, nil, nil); status != http.StatusOK {
		t.Fatalf("grow status = %d", status)
	}
	event := read()
	if event.Type != events.EventTypePlantUpdate {
		t.Fatalf("pushed event = %s", event.Type)
	}
	var view growResponse
	if err := json.Unmarshal(event.Data, &view); err != nil {
		t.Fatal(err)
	}
	if view.GrowthStage != 1 {
		t.Fatalf("pushed plant = %+v", view)
	}

	if status := s.call(t, http.MethodGet, "/api/timer/state", token, nil, nil); status != http.StatusNotFound {
		t.Fatalf("timer state status = %d", status)
	}
}
