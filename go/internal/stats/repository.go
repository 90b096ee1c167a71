package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/sqlutil"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/stats/db"
)

// Repository implements stats data access on Postgres
type Repository struct {
	conn    *sql.DB
	queries *db.Queries
}

// NewRepository creates a new stats repository
func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		conn:    conn,
		queries: db.New(conn),
	}
}

// GetUserStats returns the stats row for a user
func (r *Repository) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	row, err := r.queries.GetUserStats(ctx, userID)
	if err != nil {
		return nil, sqlutil.Classify("get user stats", err, "Stats not found")
	}
	return dbStatsToModel(row), nil
}

// UpdateUserStats locks the user's row, passes it to fn (nil when absent)
// and stores the result, all in one transaction
func (r *Repository) UpdateUserStats(ctx context.Context, userID int64, fn func(prev *models.UserStats) models.UserStats) (*models.UserStats, error) {
	var out *models.UserStats
	err := sqlutil.Run(ctx, r.conn, r.queries.WithTx, func(q *db.Queries) error {
		var prev *models.UserStats
		row, err := q.GetUserStatsForUpdate(ctx, userID)
		switch {
		case err == nil:
			prev = dbStatsToModel(row)
		case errors.Is(err, sql.ErrNoRows):
		default:
			return fmt.Errorf("failed to lock user stats: %w", err)
		}

		next := fn(prev)
		saved, err := q.UpsertUserStats(ctx, db.UpsertUserStatsParams{
			UserID:          userID,
			TotalSessions:   int32(next.TotalSessions),
			CurrentStreak:   int32(next.CurrentStreak),
			LongestStreak:   int32(next.LongestStreak),
			LastSessionDate: sqlutil.ToSqlString(next.LastSessionDate),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert user stats: %w", err)
		}
		out = dbStatsToModel(saved)
		return nil
	})
	if err != nil {
		return nil, sqlutil.Classify("update user stats", err, "Stats not found")
	}
	return out, nil
}

// dbStatsToModel converts a database row to the domain model
func dbStatsToModel(row db.UserStat) *models.UserStats {
	return &models.UserStats{
		UserID:          row.UserID,
		TotalSessions:   int(row.TotalSessions),
		CurrentStreak:   int(row.CurrentStreak),
		LongestStreak:   int(row.LongestStreak),
		LastSessionDate: sqlutil.FromSqlStringPtr(row.LastSessionDate),
	}
}
