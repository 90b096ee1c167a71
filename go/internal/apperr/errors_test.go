package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth", Auth("verify", "Invalid or expired token"), http.StatusUnauthorized},
		{"not found", NotFound("complete", "Session not found"), http.StatusNotFound},
		{"validation", Validation("register", "username is required"), http.StatusBadRequest},
		{"transient", Transient("get stats", sql.ErrConnDone), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("failed to complete session: %w", NotFound("complete", "Session not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageHidesTransientCause(t *testing.T) {
	err := Transient("grow plant", errors.New("pq: connection refused"))
	if got := Message(err); got != "Internal server error" {
		t.Fatalf("Message() = %q", got)
	}
	if !errors.Is(err, err.(*Error).Err) {
		t.Fatal("transient error should unwrap to its cause")
	}
}

func TestMessageReturnsClientText(t *testing.T) {
	err := fmt.Errorf("failed to login: %w", Auth("login", "Invalid login"))
	if got := Message(err); got != "Invalid login" {
		t.Fatalf("Message() = %q", got)
	}
	if !IsNotFound(NotFound("x", "y")) || IsNotFound(nil) {
		t.Fatal("IsNotFound mismatch")
	}
}
