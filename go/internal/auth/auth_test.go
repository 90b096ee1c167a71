package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
)

func TestIssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer("test-secret", clock)

	token, err := issuer.Issue(42, "fern")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.ID != 42 || claims.Username != "fern" {
		t.Fatalf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(clock.Now()); got != TokenTTL {
		t.Fatalf("expiry in %v, want %v", got, TokenTTL)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer("test-secret", clock)

	token, err := issuer.Issue(7, "moss")
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(TokenTTL + time.Minute)

	_, err = issuer.Verify(token)
	if apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenIssuer("one", nil).Issue(1, "ivy")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("two", nil).Verify(token); apperr.KindOf(err) != apperr.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}
	if _, err := NewTokenIssuer("two", nil).Verify(""); apperr.Message(err) != "No token provided" {
		t.Fatalf("unexpected error for empty token: %v", err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("password should match its hash")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password matched")
	}
}

func TestRequireAuth(t *testing.T) {
	issuer := NewTokenIssuer("mw-secret", nil)
	token, err := issuer.Issue(9, "sage")
	if err != nil {
		t.Fatal(err)
	}

	var seen *Claims
	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if seen == nil || seen.ID != 9 {
		t.Fatalf("claims not propagated: %+v", seen)
	}
}
