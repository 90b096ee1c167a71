package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// tickInterval is the real time between two countdown decrements
const tickInterval = time.Second

// Effects receives the side effects of state transitions. Implementations must
// not block: the machine calls them inline after releasing its lock and never
// waits for the network work they start.
type Effects interface {
	// StudyCompleted fires when a study countdown expires, after pomodoroCount
	// was incremented. The caller grows the plant and logs the session.
	StudyCompleted(snap Snapshot)
	// CycleCompleted fires when the machine returns to study with a full cycle
	// behind it. The machine is stopped at that point.
	CycleCompleted(snap Snapshot)
	// StateChanged fires for every local change except plain ticks and is
	// what gets broadcast to sibling devices.
	StateChanged(snap Snapshot)
}

// Machine is the study/break countdown shared by every client shell
type Machine struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	cfg     Config
	effects Effects
	origin  string

	state    State
	flowerID *int
	version  uint64

	pending clockwork.Timer
	gen     uint64 // invalidates ticks scheduled before the last stop
}

// NewMachine creates a stopped machine at the start of a study session
func NewMachine(clock clockwork.Clock, cfg Config, effects Effects, origin string) *Machine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if effects == nil {
		effects = NopEffects{}
	}
	return &Machine{
		clock:   clock,
		cfg:     cfg,
		effects: effects,
		origin:  origin,
		state:   State{SecondsRemaining: cfg.StudySeconds},
	}
}

// State returns a copy of the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Version returns the highest snapshot version produced or applied
func (m *Machine) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// Snapshot returns the current state as a snapshot without bumping the version
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return NewSnapshot(m.state, m.flowerID, m.version, m.origin)
}

// SetFlower sets the species carried in outgoing snapshots
func (m *Machine) SetFlower(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flowerID = &id
}

// Flower returns the species currently carried by the machine, if any
func (m *Machine) Flower() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flowerID == nil {
		return 0, false
	}
	return *m.flowerID, true
}

// Start resumes the countdown. It is a no-op while already running.
func (m *Machine) Start() {
	m.mu.Lock()
	if m.state.IsRunning {
		m.mu.Unlock()
		return
	}
	m.state.IsRunning = true
	m.scheduleLocked()
	fx := []func(){m.changedLocked()}
	m.mu.Unlock()
	run(fx)
}

// Pause stops the countdown without touching the remaining seconds
func (m *Machine) Pause() {
	m.mu.Lock()
	if !m.state.IsRunning {
		m.mu.Unlock()
		return
	}
	m.state.IsRunning = false
	m.stopLocked()
	fx := []func(){m.changedLocked()}
	m.mu.Unlock()
	run(fx)
}

// Toggle flips between running and paused
func (m *Machine) Toggle() {
	if m.State().IsRunning {
		m.Pause()
		return
	}
	m.Start()
}

// Reset returns to a stopped, fresh study session with no completed pomodoros
func (m *Machine) Reset() {
	m.mu.Lock()
	m.stopLocked()
	m.state = State{SecondsRemaining: m.cfg.StudySeconds}
	fx := []func(){m.changedLocked()}
	m.mu.Unlock()
	run(fx)
}

// Tick advances the countdown by one second. It does nothing while paused.
// Scheduled ticks call it once per second; it is exported for shells that
// drive the machine from their own loop.
func (m *Machine) Tick() {
	m.mu.Lock()
	if !m.state.IsRunning {
		m.mu.Unlock()
		return
	}
	fx := m.advanceLocked()
	m.mu.Unlock()
	run(fx)
}

// Apply overwrites local state with a snapshot from another device. Snapshots
// from this machine, or older than what it already produced or applied, are
// ignored. Two devices that changed concurrently can land on the same
// version; the higher origin wins so both settle on one state. Unversioned
// snapshots from older clients always apply and do not move the version.
// Apply never triggers StateChanged.
func (m *Machine) Apply(snap Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Origin != "" && snap.Origin == m.origin {
		return false
	}
	if snap.Version != 0 {
		if snap.Version < m.version || (snap.Version == m.version && snap.Origin <= m.origin) {
			log.Debug().
				Uint64("version", snap.Version).
				Uint64("applied", m.version).
				Msg("ignoring stale timer snapshot")
			return false
		}
		m.version = snap.Version
	}

	wasRunning := m.state.IsRunning
	m.state = snap.State(m.state)
	if snap.CurrentFlowerID != nil {
		id := *snap.CurrentFlowerID
		m.flowerID = &id
	}

	switch {
	case m.state.IsRunning && !wasRunning:
		m.scheduleLocked()
	case !m.state.IsRunning && wasRunning:
		m.stopLocked()
	}
	return true
}

// advanceLocked decrements the countdown and fires the expiry transition
// when it reaches zero
func (m *Machine) advanceLocked() []func() {
	m.state.SecondsRemaining--
	if m.state.SecondsRemaining > 0 {
		return nil
	}
	return m.expireLocked()
}

func (m *Machine) expireLocked() []func() {
	var fx []func()

	if !m.state.OnBreak {
		m.state.PomodoroCount++
		m.state.SecondsRemaining = m.cfg.BreakSeconds(m.state.PomodoroCount)
		m.state.OnBreak = true
		done := NewSnapshot(m.state, m.flowerID, m.version, m.origin)
		fx = append(fx, func() { m.effects.StudyCompleted(done) })
		fx = append(fx, m.changedLocked())
		return fx
	}

	m.state.SecondsRemaining = m.cfg.StudySeconds
	m.state.OnBreak = false

	// The last break of a cycle plays out fully; completion is only checked
	// once the machine is back in study mode.
	if m.state.PomodoroCount >= m.cfg.CycleLength {
		m.state.IsRunning = false
		m.stopLocked()
		done := NewSnapshot(m.state, m.flowerID, m.version, m.origin)
		fx = append(fx, func() { m.effects.CycleCompleted(done) })
	}
	fx = append(fx, m.changedLocked())
	return fx
}

// changedLocked bumps the version and returns the broadcast for the new state
func (m *Machine) changedLocked() func() {
	m.version++
	snap := NewSnapshot(m.state, m.flowerID, m.version, m.origin)
	return func() { m.effects.StateChanged(snap) }
}

// scheduleLocked arms the next one-second tick
func (m *Machine) scheduleLocked() {
	m.stopLocked()
	gen := m.gen
	m.pending = m.clock.AfterFunc(tickInterval, func() { m.scheduledTick(gen) })
}

// stopLocked cancels the pending tick, including one whose timer already
// fired but has not taken the lock yet
func (m *Machine) stopLocked() {
	m.gen++
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

func (m *Machine) scheduledTick(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.state.IsRunning {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	fx := m.advanceLocked()
	// Auto-continue unless the transition stopped the machine
	if m.state.IsRunning {
		m.scheduleLocked()
	}
	m.mu.Unlock()
	run(fx)
}

func run(fx []func()) {
	for _, f := range fx {
		f()
	}
}

// NopEffects ignores every transition
type NopEffects struct{}

func (NopEffects) StudyCompleted(Snapshot) {}
func (NopEffects) CycleCompleted(Snapshot) {}
func (NopEffects) StateChanged(Snapshot)   {}
