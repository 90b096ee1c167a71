package pomodoro_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/k1ngsalm0n/pomodoro-plant/go/clients"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
)

func TestLoginInstallsBearerToken(t *testing.T) {
	var gotAuth string
	var gotGrow map[string]int

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		json.NewEncoder(w).Encode(AuthResponse{Message: "Login success", Token: "tok-" + creds.Username, Username: creds.Username})
	})
	mux.HandleFunc("POST "+PlantGrowEndpoint, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(AuthorizationHeader)
		json.NewDecoder(r.Body).Decode(&gotGrow)
		json.NewEncoder(w).Encode(GrowResult{Plant: Plant{SpeciesID: 7, GrowthStage: 4}, IsFullyGrown: true, IsNew: true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewPomodoroClient(srv.URL)
	ctx := context.Background()
	if _, err := client.Login(ctx, "ana", "secret"); err != nil {
		t.Fatal(err)
	}
	result, err := client.Grow(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer tok-ana" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if diff := cmp.Diff(map[string]int{"speciesId": 7}, gotGrow); diff != "" {
		t.Fatalf("grow body (-want +got):\n%s", diff)
	}
	if !result.IsFullyGrown || !result.IsNew || result.SpeciesID != 7 {
		t.Fatalf("grow result = %+v", result)
	}
}

func TestErrorsCarryServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Session not found"}`))
	}))
	defer srv.Close()

	err := NewPomodoroClient(srv.URL).CompleteSession(context.Background(), 9)
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Session not found" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"http://localhost:5001", "ws://localhost:5001/ws"},
		{"https://plant.example.com/", "wss://plant.example.com/ws"},
		{"http://host/prefix?token=leaked", "ws://host/prefix/ws"},
	}
	for _, tt := range tests {
		got, err := SocketURL(tt.base)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("SocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestDialSocketAuthenticatesFirst(t *testing.T) {
	type first struct {
		query string
		msg   outgoing
		err   error
	}
	got := make(chan first, 1)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			got <- first{err: err}
			return
		}
		defer conn.Close()
		var raw struct {
			Type events.EventType `json:"type"`
			Data map[string]any   `json:"data"`
		}
		err = conn.ReadJSON(&raw)
		got <- first{query: r.URL.RawQuery, msg: outgoing{Type: raw.Type, Data: raw.Data}, err: err}
	}))
	defer srv.Close()

	client := NewPomodoroClient(srv.URL)
	client.SetToken("tok-ana")
	socket, err := client.DialSocket(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer socket.Close()

	select {
	case f := <-got:
		if f.err != nil {
			t.Fatal(f.err)
		}
		if f.query != "" {
			t.Fatalf("token leaked into URL query %q", f.query)
		}
		want := outgoing{Type: events.EventTypeAuthenticate, Data: map[string]any{"token": "tok-ana"}}
		if diff := cmp.Diff(want, f.msg); diff != "" {
			t.Fatalf("first message (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("relay never received a message")
	}
}
