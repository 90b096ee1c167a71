package pomodoro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/events"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/stats"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/storage/memstore"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
)

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []any
}

func (n *recordingNotifier) NotifyUser(_ int64, eventType events.EventType, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if eventType == events.EventTypeTimerUpdate {
		n.payloads = append(n.payloads, payload)
	}
}

type failingStats struct{}

func (failingStats) Record(context.Context, int64) (*models.UserStats, error) {
	return nil, apperr.Transient("record", errors.New("stats store down"))
}

type fixture struct {
	app      *App
	store    *memstore.Store
	stats    *stats.App
	notifier *recordingNotifier
	clock    *clockwork.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	store := memstore.New(clock)
	statsApp := stats.NewApp(store, clock)
	notifier := &recordingNotifier{}
	return fixture{
		app:      NewApp(store, statsApp, notifier, clock, timer.DefaultConfig()),
		store:    store,
		stats:    statsApp,
		notifier: notifier,
		clock:    clock,
	}
}

func TestStartDefaults(t *testing.T) {
	f := newFixture(t)

	session, err := f.app.Start(context.Background(), 1, StartRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if session.ID == 0 || session.DurationMinutes != 25 || session.Type != models.SessionTypeStudy {
		t.Fatalf("session = %+v", session)
	}
	if !session.StartedAt.Equal(f.clock.Now()) || session.CompletedAt != nil {
		t.Fatalf("timestamps = %v / %v", session.StartedAt, session.CompletedAt)
	}

	started, ok := f.notifier.payloads[0].(events.TimerStartedPayload)
	if !ok || started.Action != events.TimerActionStarted || started.SessionID != session.ID {
		t.Fatalf("broadcast = %#v", f.notifier.payloads[0])
	}
}

func TestStartBreakSession(t *testing.T) {
	f := newFixture(t)
	five := 5

	session, err := f.app.Start(context.Background(), 1, StartRequest{DurationMinutes: &five, SessionType: "break"})
	if err != nil {
		t.Fatal(err)
	}
	if session.DurationMinutes != 5 || session.Type != models.SessionTypeBreak {
		t.Fatalf("session = %+v", session)
	}
}

func TestCompleteRecordsStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.app.Start(ctx, 1, StartRequest{})
	if err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(25 * time.Minute)

	result, err := f.app.Complete(ctx, 1, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.SessionID != session.ID || !result.CompletedAt.Equal(f.clock.Now()) {
		t.Fatalf("result = %+v", result)
	}

	got, err := f.stats.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSessions != 1 || got.CurrentStreak != 1 || *got.LastSessionDate != "2024-06-01" {
		t.Fatalf("stats = %+v", got)
	}

	completed, ok := f.notifier.payloads[1].(events.TimerCompletedPayload)
	if !ok || completed.Action != events.TimerActionCompleted {
		t.Fatalf("broadcast = %#v", f.notifier.payloads[1])
	}
}

func TestCompleteRejectsUnknownForeignAndClosedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.app.Start(ctx, 1, StartRequest{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.app.Complete(ctx, 2, session.ID); !apperr.IsNotFound(err) {
		t.Fatalf("foreign session: %v", err)
	}
	if _, err := f.app.Complete(ctx, 1, 999); !apperr.IsNotFound(err) {
		t.Fatalf("unknown session: %v", err)
	}
	if _, err := f.app.Complete(ctx, 1, session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.app.Complete(ctx, 1, session.ID); !apperr.IsNotFound(err) {
		t.Fatalf("closed session: %v", err)
	}
	if _, err := f.app.Complete(ctx, 1, 0); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("missing id: %v", err)
	}

	got, err := f.stats.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSessions != 1 {
		t.Fatalf("rejected completions were counted: %+v", got)
	}
}

func TestCompleteSurvivesStatsFailure(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.store, failingStats{}, nil, f.clock, timer.DefaultConfig())
	ctx := context.Background()

	session, err := app.Start(ctx, 1, StartRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Complete(ctx, 1, session.ID); err != nil {
		t.Fatalf("completion failed on stats error: %v", err)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	want := Settings{Study: 25, ShortBreak: 5, LongBreak: 15, SessionsUntilLongBreak: 4, User: "ana"}
	if got := f.app.Settings("ana"); got != want {
		t.Fatalf("Settings() = %+v", got)
	}
}

func TestSubMinuteScheduleRoundsUp(t *testing.T) {
	f := newFixture(t)
	app := NewApp(f.store, f.stats, f.notifier, f.clock, timer.Config{
		StudySeconds:      30,
		ShortBreakSeconds: 10,
		LongBreakSeconds:  90,
		CycleLength:       4,
	})

	want := Settings{Study: 1, ShortBreak: 1, LongBreak: 2, SessionsUntilLongBreak: 4, User: "ana"}
	if got := app.Settings("ana"); got != want {
		t.Fatalf("Settings() = %+v", got)
	}

	session, err := app.Start(context.Background(), 1, StartRequest{})
	if err != nil {
		t.Fatalf("start with default duration: %v", err)
	}
	if session.DurationMinutes != 1 {
		t.Fatalf("duration = %d, want 1", session.DurationMinutes)
	}
}
