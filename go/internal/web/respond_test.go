package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
)

type startBody struct {
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=240"`
	SessionType     string `json:"session_type" validate:"omitempty,oneof=study break"`
	SessionID       int64  `json:"session_id" validate:"required"`
}

func TestDecodeValidatesUsingJSONNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"session_type":"study"}`))
	var body startBody
	err := Decode(req, &body)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := apperr.Message(err); got != "session_id is required" {
		t.Fatalf("message = %q", got)
	}
}

func TestDecodeOneOf(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"session_id":1,"session_type":"nap"}`))
	var body startBody
	err := Decode(req, &body)
	if got := apperr.Message(err); got != "session_type must be one of: study, break" {
		t.Fatalf("message = %q", got)
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"session_id":`))
	var body startBody
	if got := apperr.Message(Decode(req, &body)); got != "Invalid request body" {
		t.Fatalf("message = %q", got)
	}
}

func TestErrorWritesStatusAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/stats", nil)

	Error(rec, req, apperr.NotFound("complete", "Session not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Session not found" {
		t.Fatalf("body = %v", body)
	}
}
