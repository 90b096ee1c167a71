package pomodoro

import (
	"context"
	"time"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/pomodoro/db"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateSession(ctx context.Context, arg db.CreateSessionParams) (db.PomodoroSession, error)
	CompleteSession(ctx context.Context, arg db.CompleteSessionParams) (db.PomodoroSession, error)
}

// Repository implements session log data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new pomodoro repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateSession appends a session to the log
func (r *Repository) CreateSession(ctx context.Context, session models.PomodoroSession) (*models.PomodoroSession, error) {
	row, err := r.queries.CreateSession(ctx, db.CreateSessionParams{
		UserID:          session.UserID,
		StartedAt:       session.StartedAt,
		DurationMinutes: int32(session.DurationMinutes),
		SessionType:     string(session.Type),
	})
	if err != nil {
		return nil, sqlutil.Classify("create session", err, sessionNotFound)
	}
	return dbSessionToModel(row), nil
}

// CompleteSession closes an open session owned by userID. Unknown, foreign
// and already completed sessions are NotFound.
func (r *Repository) CompleteSession(ctx context.Context, userID, sessionID int64, completedAt time.Time) (*models.PomodoroSession, error) {
	row, err := r.queries.CompleteSession(ctx, db.CompleteSessionParams{
		ID:          sessionID,
		UserID:      userID,
		CompletedAt: completedAt,
	})
	if err != nil {
		return nil, sqlutil.Classify("complete session", err, sessionNotFound)
	}
	return dbSessionToModel(row), nil
}

// dbSessionToModel converts a database row to the domain model
func dbSessionToModel(row db.PomodoroSession) *models.PomodoroSession {
	return &models.PomodoroSession{
		ID:              row.ID,
		UserID:          row.UserID,
		StartedAt:       row.StartedAt,
		CompletedAt:     sqlutil.FromSqlTime(row.CompletedAt),
		DurationMinutes: int(row.DurationMinutes),
		Type:            models.SessionType(row.SessionType),
	}
}
