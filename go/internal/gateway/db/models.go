package db

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

type TimerSnapshot struct {
	UserID    int64
	Version   int64
	Payload   pqtype.NullRawMessage
	UpdatedAt time.Time
}
