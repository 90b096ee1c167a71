package db

import (
	"database/sql"
)

type UserStat struct {
	UserID          int64
	TotalSessions   int32
	CurrentStreak   int32
	LongestStreak   int32
	LastSessionDate sql.NullString
}
