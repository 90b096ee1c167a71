package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/gateway/db"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Repository stores relayed timer snapshots in Postgres
type Repository struct {
	queries *db.Queries
}

// NewRepository creates a new snapshot repository
func NewRepository(conn *sql.DB) *Repository {
	return &Repository{queries: db.New(conn)}
}

// SaveTimerSnapshot stores payload when version is newer than the stored one
func (r *Repository) SaveTimerSnapshot(ctx context.Context, userID int64, version uint64, payload []byte) (bool, error) {
	if !json.Valid(payload) {
		return false, apperr.Validation("save timer snapshot", "Invalid timer state")
	}
	n, err := r.queries.UpsertTimerSnapshot(ctx, db.UpsertTimerSnapshotParams{
		UserID:  userID,
		Version: int64(version),
		Payload: pqtype.NullRawMessage{RawMessage: payload, Valid: true},
	})
	if err != nil {
		return false, apperr.Transient("save timer snapshot", fmt.Errorf("failed to upsert timer snapshot: %w", err))
	}
	return n > 0, nil
}

// GetTimerSnapshot returns the newest stored snapshot for a user
func (r *Repository) GetTimerSnapshot(ctx context.Context, userID int64) (*models.TimerSnapshot, error) {
	row, err := r.queries.GetTimerSnapshot(ctx, userID)
	if err != nil {
		return nil, sqlutil.Classify("get timer snapshot", err, "No timer state")
	}
	if !row.Payload.Valid {
		return nil, apperr.NotFound("get timer snapshot", "No timer state")
	}
	return &models.TimerSnapshot{
		UserID:    row.UserID,
		Version:   uint64(row.Version),
		Payload:   row.Payload.RawMessage,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
