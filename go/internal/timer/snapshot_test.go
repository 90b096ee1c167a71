package timer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotDecodeKeepsWellFormedFields(t *testing.T) {
	prev := State{SecondsRemaining: 900, PomodoroCount: 1}

	tests := []struct {
		name    string
		raw     string
		want    State
		version uint64
		origin  string
	}{
		{
			name:    "string seconds",
			raw:     `{"seconds":"abc","pomodoroCount":3,"onBreak":true,"version":5,"origin":"device-b"}`,
			want:    State{SecondsRemaining: 900, PomodoroCount: 3, OnBreak: true},
			version: 5,
			origin:  "device-b",
		},
		{
			name: "float seconds",
			raw:  `{"seconds":12.0,"isRunning":true}`,
			want: State{SecondsRemaining: 12, PomodoroCount: 1, IsRunning: true},
		},
		{
			name: "nulls",
			raw:  `{"seconds":null,"onBreak":null,"pomodoroCount":2}`,
			want: State{SecondsRemaining: 900, PomodoroCount: 2},
		},
		{
			name:   "bad bool and version",
			raw:    `{"onBreak":"yes","isRunning":1,"version":"x","origin":7,"seconds":30}`,
			want:   State{SecondsRemaining: 30, PomodoroCount: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap Snapshot
			if err := json.Unmarshal([]byte(tt.raw), &snap); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, snap.State(prev)); diff != "" {
				t.Fatalf("state (-want +got):\n%s", diff)
			}
			if snap.Version != tt.version || snap.Origin != tt.origin {
				t.Fatalf("version=%d origin=%q", snap.Version, snap.Origin)
			}
		})
	}
}

func TestSnapshotDecodeRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"seconds"`, `{`} {
		var snap Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			t.Errorf("%s decoded without error", raw)
		}
	}
}

func TestSnapshotDecodeAppliesToMachine(t *testing.T) {
	m, _, _ := newTestMachine(t)

	var snap Snapshot
	raw := `{"seconds":"soon","pomodoroCount":3,"onBreak":true,"version":5,"origin":"device-b"}`
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatal(err)
	}
	if !m.Apply(snap) {
		t.Fatal("snapshot rejected")
	}
	want := State{SecondsRemaining: testConfig().StudySeconds, PomodoroCount: 3, OnBreak: true}
	if diff := cmp.Diff(want, m.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
}

func TestMinutes(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 30: 1, 60: 1, 61: 2, 1500: 25, 299: 5}
	for seconds, want := range tests {
		if got := Minutes(seconds); got != want {
			t.Errorf("Minutes(%d) = %d, want %d", seconds, got, want)
		}
	}
}
