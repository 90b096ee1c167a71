package timer

import "fmt"

// Phase is the derived countdown mode
type Phase string

const (
	PhaseStudy      Phase = "study"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// PhaseOf derives the phase from state; which break applies is never stored
func PhaseOf(s State, cfg Config) Phase {
	if !s.OnBreak {
		return PhaseStudy
	}
	if s.PomodoroCount%cfg.CycleLength == 0 {
		return PhaseLongBreak
	}
	return PhaseShortBreak
}

// Label returns the human readable phase name
func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Study Mode"
	}
}

// Display is what a shell renders for the current state
type Display struct {
	Clock      string
	Phase      Phase
	Progress   string
	PlantStage int // 0 while on break
}

// Render builds the display for s
func Render(s State, cfg Config) Display {
	d := Display{
		Clock:    FormatClock(s.SecondsRemaining),
		Phase:    PhaseOf(s, cfg),
		Progress: fmt.Sprintf("Pomodoros completed: %d / %d", CycleProgress(s.PomodoroCount, cfg.CycleLength), cfg.CycleLength),
	}
	if !s.OnBreak {
		d.PlantStage = min(s.PomodoroCount+1, cfg.CycleLength)
	}
	return d
}

// CycleProgress maps the uncapped pomodoro count onto the displayed cycle,
// which resets every cycleLength sessions
func CycleProgress(count, cycleLength int) int {
	if count <= 0 {
		return 0
	}
	return (count-1)%cycleLength + 1
}

// FormatClock renders seconds as MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
