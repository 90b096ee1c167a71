package pomodoro

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
	"github.com/rs/zerolog/log"
)

// SessionRepository defines what the app layer needs from the repository
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.PomodoroSession) (*models.PomodoroSession, error)
	CompleteSession(ctx context.Context, userID, sessionID int64, completedAt time.Time) (*models.PomodoroSession, error)
}

// StatsRecorder rolls a completed session into the user's stats
type StatsRecorder interface {
	Record(ctx context.Context, userID int64) (*models.UserStats, error)
}

// App handles the pomodoro session log
type App struct {
	repo     SessionRepository
	stats    StatsRecorder
	notifier events.Notifier
	clock    clockwork.Clock
	cfg      timer.Config
}

// NewApp creates a new pomodoro App
func NewApp(repo SessionRepository, stats StatsRecorder, notifier events.Notifier, clock clockwork.Clock, cfg timer.Config) *App {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:     repo,
		stats:    stats,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
	}
}

// Settings returns the countdown lengths in minutes
func (a *App) Settings(username string) Settings {
	return Settings{
		Study:                  timer.Minutes(a.cfg.StudySeconds),
		ShortBreak:             timer.Minutes(a.cfg.ShortBreakSeconds),
		LongBreak:              timer.Minutes(a.cfg.LongBreakSeconds),
		SessionsUntilLongBreak: a.cfg.CycleLength,
		User:                   username,
	}
}

// Start appends a new open session to the user's log
func (a *App) Start(ctx context.Context, userID int64, req StartRequest) (*models.PomodoroSession, error) {
	session := models.PomodoroSession{
		UserID:          userID,
		StartedAt:       a.clock.Now().UTC(),
		DurationMinutes: timer.Minutes(a.cfg.StudySeconds),
		Type:            models.SessionTypeStudy,
	}
	if req.DurationMinutes != nil {
		session.DurationMinutes = *req.DurationMinutes
	}
	if req.SessionType != "" {
		session.Type = models.SessionType(req.SessionType)
	}
	if session.DurationMinutes <= 0 {
		return nil, apperr.Validation("start session", "duration_minutes must be at least 1")
	}

	created, err := a.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Int64("session_id", created.ID).
		Str("session_type", string(created.Type)).
		Msg("session started")

	a.notifier.NotifyUser(userID, events.EventTypeTimerUpdate, events.TimerStartedPayload{
		Action:          events.TimerActionStarted,
		SessionID:       created.ID,
		StartedAt:       created.StartedAt,
		DurationMinutes: created.DurationMinutes,
		SessionType:     string(created.Type),
	})
	return created, nil
}

// Complete closes an open session and records it in the user's stats. A
// stats failure is logged and does not fail the completion.
func (a *App) Complete(ctx context.Context, userID, sessionID int64) (*CompleteResult, error) {
	if sessionID <= 0 {
		return nil, apperr.Validation("complete session", "session_id is required")
	}

	session, err := a.repo.CompleteSession(ctx, userID, sessionID, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	if _, err := a.stats.Record(ctx, userID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Int64("session_id", sessionID).Msg("failed to update stats")
	}

	result := &CompleteResult{
		Message:     "Session completed",
		SessionID:   session.ID,
		CompletedAt: *session.CompletedAt,
	}

	log.Info().Int64("user_id", userID).Int64("session_id", session.ID).Msg("session completed")

	a.notifier.NotifyUser(userID, events.EventTypeTimerUpdate, events.TimerCompletedPayload{
		Action:      events.TimerActionCompleted,
		Message:     result.Message,
		SessionID:   result.SessionID,
		CompletedAt: result.CompletedAt,
	})
	return result, nil
}
