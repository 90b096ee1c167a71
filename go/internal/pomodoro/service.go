package pomodoro

import (
	"context"
	"net/http"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

// PomodoroApp defines what the service layer needs from the pomodoro application
type PomodoroApp interface {
	Settings(username string) Settings
	Start(ctx context.Context, userID int64, req StartRequest) (*models.PomodoroSession, error)
	Complete(ctx context.Context, userID, sessionID int64) (*CompleteResult, error)
}

// Service serves the pomodoro HTTP endpoints
type Service struct {
	app PomodoroApp
}

// NewService creates a new pomodoro service
func NewService(app PomodoroApp) *Service {
	return &Service{
		app: app,
	}
}

// GetSettings handles GET /api/pomodoro/settings
func (s *Service) GetSettings(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, s.app.Settings(claims.Username))
}

// Start handles POST /api/pomodoro/start
func (s *Service) Start(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req StartRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	session, err := s.app.Start(r.Context(), claims.ID, req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, session)
}

// Complete handles POST /api/pomodoro/complete
func (s *Service) Complete(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req CompleteRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	result, err := s.app.Complete(r.Context(), claims.ID, req.ID())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, result)
}
