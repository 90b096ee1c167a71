package timer

import (
	"fmt"
	"time"
)

// Config holds the countdown lengths for one pomodoro cycle
type Config struct {
	StudySeconds      int
	ShortBreakSeconds int
	LongBreakSeconds  int
	CycleLength       int // study sessions per cycle; every CycleLength-th break is long
}

// DefaultConfig returns the classic 25/5/15 schedule with a long break every 4 sessions
func DefaultConfig() Config {
	return Config{
		StudySeconds:      int((25 * time.Minute).Seconds()),
		ShortBreakSeconds: int((5 * time.Minute).Seconds()),
		LongBreakSeconds:  int((15 * time.Minute).Seconds()),
		CycleLength:       4,
	}
}

// Validate checks that every duration is positive
func (c Config) Validate() error {
	if c.StudySeconds <= 0 || c.ShortBreakSeconds <= 0 || c.LongBreakSeconds <= 0 {
		return fmt.Errorf("durations must be positive: %+v", c)
	}
	if c.CycleLength <= 0 {
		return fmt.Errorf("cycle length must be positive: %d", c.CycleLength)
	}
	return nil
}

// BreakSeconds returns the break length that follows the given number of
// completed study sessions
func (c Config) BreakSeconds(pomodoroCount int) int {
	if pomodoroCount%c.CycleLength == 0 {
		return c.LongBreakSeconds
	}
	return c.ShortBreakSeconds
}

// Minutes converts a duration in seconds to whole minutes, rounding up so
// that sub-minute schedules still report one minute
func Minutes(seconds int) int {
	return max((seconds+59)/60, 1)
}
