package stats

import (
	"context"
	"net/http"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

// StatsApp defines what the service layer needs from the stats application
type StatsApp interface {
	Get(ctx context.Context, userID int64) (*models.UserStats, error)
}

// Service serves the stats HTTP endpoints
type Service struct {
	app StatsApp
}

// NewService creates a new stats service
func NewService(app StatsApp) *Service {
	return &Service{
		app: app,
	}
}

// GetStats handles GET /api/user/stats
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.CurrentUser(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	stats, err := s.app.Get(r.Context(), claims.ID)
	if err != nil {
		web.Error(w, r, err)
		return
	}
	web.JSON(w, http.StatusOK, stats)
}
