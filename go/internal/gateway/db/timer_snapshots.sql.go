package db

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const getTimerSnapshot = `-- name: GetTimerSnapshot :one
SELECT user_id, version, payload, updated_at
FROM timer_snapshots
WHERE user_id = $1
`

func (q *Queries) GetTimerSnapshot(ctx context.Context, userID int64) (TimerSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getTimerSnapshot, userID)
	var i TimerSnapshot
	err := row.Scan(
		&i.UserID,
		&i.Version,
		&i.Payload,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertTimerSnapshot = `-- name: UpsertTimerSnapshot :execrows
INSERT INTO timer_snapshots (user_id, version, payload, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id) DO UPDATE SET
    version = EXCLUDED.version,
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at
WHERE timer_snapshots.version < EXCLUDED.version
`

type UpsertTimerSnapshotParams struct {
	UserID  int64
	Version int64
	Payload pqtype.NullRawMessage
}

func (q *Queries) UpsertTimerSnapshot(ctx context.Context, arg UpsertTimerSnapshotParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, upsertTimerSnapshot, arg.UserID, arg.Version, arg.Payload)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
