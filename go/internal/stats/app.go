package stats

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/rs/zerolog/log"
)

// StatsRepository defines what the app layer needs from the repository
type StatsRepository interface {
	GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	UpdateUserStats(ctx context.Context, userID int64, fn func(prev *models.UserStats) models.UserStats) (*models.UserStats, error)
}

// App handles stats business logic
type App struct {
	repo  StatsRepository
	clock clockwork.Clock
}

// NewApp creates a new stats App
func NewApp(repo StatsRepository, clock clockwork.Clock) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:  repo,
		clock: clock,
	}
}

// Get returns the user's stats, all zero when nothing was completed yet
func (a *App) Get(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := a.repo.GetUserStats(ctx, userID)
	if apperr.IsNotFound(err) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

// Record rolls one completed session at the current time into the user's stats
func (a *App) Record(ctx context.Context, userID int64) (*models.UserStats, error) {
	now := a.clock.Now()
	stats, err := a.repo.UpdateUserStats(ctx, userID, func(prev *models.UserStats) models.UserStats {
		return Rollup(prev, userID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Int("total_sessions", stats.TotalSessions).
		Int("current_streak", stats.CurrentStreak).
		Msg("recorded completed session")
	return stats, nil
}
