package users

import (
	"context"
	"net/http"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

// UsersApp defines what the service layer needs from the users application
type UsersApp interface {
	Register(ctx context.Context, req CredentialsRequest) (*AuthResponse, error)
	Login(ctx context.Context, req CredentialsRequest) (*AuthResponse, error)
}

// Service serves the account HTTP endpoints
type Service struct {
	app UsersApp
}

// NewService creates a new users service
func NewService(app UsersApp) *Service {
	return &Service{
		app: app,
	}
}

// Register handles POST /api/register
func (s *Service) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	resp, err := s.app.Register(r.Context(), req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, resp)
}

// Login handles POST /api/login
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	resp, err := s.app.Login(r.Context(), req)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/logout. Tokens are stateless, so the client just
// drops its copy.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, http.StatusOK, MessageResponse{Message: "Logout success"})
}
