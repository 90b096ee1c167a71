package timer

import (
	"bytes"
	"encoding/json"
)

// State is the device-local countdown state
type State struct {
	SecondsRemaining int
	PomodoroCount    int
	OnBreak          bool
	IsRunning        bool
}

// Snapshot is the wire form of State relayed between a user's devices.
// Every field is optional on receive; absent or malformed fields keep the
// receiver's previous value.
type Snapshot struct {
	Seconds         *int   `json:"seconds,omitempty"`
	PomodoroCount   *int   `json:"pomodoroCount,omitempty"`
	OnBreak         *bool  `json:"onBreak,omitempty"`
	IsRunning       *bool  `json:"isRunning,omitempty"`
	CurrentFlowerID *int   `json:"currentFlowerId,omitempty"`
	Version         uint64 `json:"version,omitempty"`
	Origin          string `json:"origin,omitempty"`
}

// NewSnapshot builds a complete snapshot from state
func NewSnapshot(s State, flowerID *int, version uint64, origin string) Snapshot {
	snap := Snapshot{
		Seconds:       intPtr(s.SecondsRemaining),
		PomodoroCount: intPtr(s.PomodoroCount),
		OnBreak:       boolPtr(s.OnBreak),
		IsRunning:     boolPtr(s.IsRunning),
		Version:       version,
		Origin:        origin,
	}
	if flowerID != nil {
		snap.CurrentFlowerID = intPtr(*flowerID)
	}
	return snap
}

// State returns the snapshot's fields layered over prev
func (s Snapshot) State(prev State) State {
	next := prev
	if s.Seconds != nil && *s.Seconds >= 0 {
		next.SecondsRemaining = *s.Seconds
	}
	if s.PomodoroCount != nil && *s.PomodoroCount >= 0 {
		next.PomodoroCount = *s.PomodoroCount
	}
	if s.OnBreak != nil {
		next.OnBreak = *s.OnBreak
	}
	if s.IsRunning != nil {
		next.IsRunning = *s.IsRunning
	}
	return next
}

// UnmarshalJSON decodes each field on its own so that one malformed field
// does not discard the rest of the snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*s = Snapshot{
		Seconds:         optInt(fields["seconds"]),
		PomodoroCount:   optInt(fields["pomodoroCount"]),
		OnBreak:         optBool(fields["onBreak"]),
		IsRunning:       optBool(fields["isRunning"]),
		CurrentFlowerID: optInt(fields["currentFlowerId"]),
	}
	if v := optInt(fields["version"]); v != nil && *v > 0 {
		s.Version = uint64(*v)
	}
	if raw, ok := fields["origin"]; ok {
		var origin string
		if json.Unmarshal(raw, &origin) == nil {
			s.Origin = origin
		}
	}
	return nil
}

// optInt accepts any JSON number, truncating fractions. Anything else is nil.
func optInt(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		return intPtr(int(i))
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return intPtr(int(f))
}

func optBool(raw json.RawMessage) *bool {
	if len(raw) == 0 {
		return nil
	}
	var b *bool
	if json.Unmarshal(raw, &b) != nil {
		return nil
	}
	return b
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
