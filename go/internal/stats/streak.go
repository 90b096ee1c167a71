package stats

import (
	"time"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
)

// dateLayout is the calendar day format stored in last_session_date
const dateLayout = "2006-01-02"

// DateKey returns the UTC calendar day of t
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Rollup applies one completed session at now to prev. A nil prev means the
// user has no stats yet.
//
// The streak stays the same for a second session on the same day, grows by
// one when the last session was yesterday and restarts at 1 otherwise.
// LongestStreak never decreases.
func Rollup(prev *models.UserStats, userID int64, now time.Time) models.UserStats {
	today := DateKey(now)
	next := models.UserStats{
		UserID:          userID,
		TotalSessions:   1,
		CurrentStreak:   1,
		LongestStreak:   1,
		LastSessionDate: &today,
	}
	if prev == nil {
		return next
	}

	next.TotalSessions = prev.TotalSessions + 1
	if prev.LastSessionDate != nil {
		switch *prev.LastSessionDate {
		case today:
			next.CurrentStreak = prev.CurrentStreak
		case DateKey(now.UTC().AddDate(0, 0, -1)):
			next.CurrentStreak = prev.CurrentStreak + 1
		}
	}
	// A row from before any completion can carry a zero streak
	if next.CurrentStreak < 1 {
		next.CurrentStreak = 1
	}
	next.LongestStreak = max(prev.LongestStreak, next.CurrentStreak)
	return next
}
