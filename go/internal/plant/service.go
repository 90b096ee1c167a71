package plant

import (
	"context"
	"net/http"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

// PlantApp defines what the service layer needs from the plant application
type PlantApp interface {
	State(ctx context.Context, userID int64) (*PlantView, error)
	Grow(ctx context.Context, userID int64, requested int) (*GrowResult, error)
	NewPlant(ctx context.Context, userID int64) (*PlantView, error)
	Collection(ctx context.Context, userID int64) (*Collection, error)
}

// Service serves the plant HTTP endpoints
type Service struct {
	app PlantApp
}

// NewService creates a new plant service
func NewService(app PlantApp) *Service {
	return &Service{
		app: app,
	}
}

// GetState handles GET /api/plant/state
func (s *Service) GetState(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	view, err := s.app.State(r.Context(), claims.ID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, view)
}

// Grow handles POST /api/plant/grow
func (s *Service) Grow(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req GrowRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	result, err := s.app.Grow(r.Context(), claims.ID, req.Requested())
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, result)
}

// NewPlant handles POST /api/plant/new
func (s *Service) NewPlant(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	view, err := s.app.NewPlant(r.Context(), claims.ID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, view)
}

// GetCollection handles GET /api/user/collection
func (s *Service) GetCollection(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	collection, err := s.app.Collection(r.Context(), claims.ID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, collection)
}
