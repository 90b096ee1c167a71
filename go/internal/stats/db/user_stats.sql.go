package db

import (
	"context"
	"database/sql"
)

const getUserStats = `-- name: GetUserStats :one
SELECT user_id, total_sessions, current_streak, longest_streak, last_session_date
FROM user_stats
WHERE user_id = $1
`

func (q *Queries) GetUserStats(ctx context.Context, userID int64) (UserStat, error) {
	row := q.db.QueryRowContext(ctx, getUserStats, userID)
	var i UserStat
	err := row.Scan(
		&i.UserID,
		&i.TotalSessions,
		&i.CurrentStreak,
		&i.LongestStreak,
		&i.LastSessionDate,
	)
	return i, err
}

const getUserStatsForUpdate = `-- name: GetUserStatsForUpdate :one
SELECT user_id, total_sessions, current_streak, longest_streak, last_session_date
FROM user_stats
WHERE user_id = $1
FOR UPDATE
`

func (q *Queries) GetUserStatsForUpdate(ctx context.Context, userID int64) (UserStat, error) {
	row := q.db.QueryRowContext(ctx, getUserStatsForUpdate, userID)
	var i UserStat
	err := row.Scan(
		&i.UserID,
		&i.TotalSessions,
		&i.CurrentStreak,
		&i.LongestStreak,
		&i.LastSessionDate,
	)
	return i, err
}

const upsertUserStats = `-- name: UpsertUserStats :one
INSERT INTO user_stats (user_id, total_sessions, current_streak, longest_streak, last_session_date)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
    total_sessions = EXCLUDED.total_sessions,
    current_streak = EXCLUDED.current_streak,
    longest_streak = GREATEST(user_stats.longest_streak, EXCLUDED.longest_streak),
    last_session_date = EXCLUDED.last_session_date
RETURNING user_id, total_sessions, current_streak, longest_streak, last_session_date
`

type UpsertUserStatsParams struct {
	UserID          int64
	TotalSessions   int32
	CurrentStreak   int32
	LongestStreak   int32
	LastSessionDate sql.NullString
}

func (q *Queries) UpsertUserStats(ctx context.Context, arg UpsertUserStatsParams) (UserStat, error) {
	row := q.db.QueryRowContext(ctx, upsertUserStats,
		arg.UserID,
		arg.TotalSessions,
		arg.CurrentStreak,
		arg.LongestStreak,
		arg.LastSessionDate,
	)
	var i UserStat
	err := row.Scan(
		&i.UserID,
		&i.TotalSessions,
		&i.CurrentStreak,
		&i.LongestStreak,
		&i.LastSessionDate,
	)
	return i, err
}
