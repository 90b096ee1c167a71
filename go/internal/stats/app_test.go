package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/models"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows map[int64]models.UserStats
	err  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]models.UserStats)}
}

func (f *fakeRepo) GetUserStats(_ context.Context, userID int64) (*models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.rows[userID]
	if !ok {
		return nil, apperr.NotFound("get user stats", "Stats not found")
	}
	return &row, nil
}

func (f *fakeRepo) UpdateUserStats(_ context.Context, userID int64, fn func(*models.UserStats) models.UserStats) (*models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var prev *models.UserStats
	if row, ok := f.rows[userID]; ok {
		prev = &row
	}
	next := fn(prev)
	f.rows[userID] = next
	return &next, nil
}

func TestGetReturnsZerosWhenAbsent(t *testing.T) {
	app := NewApp(newFakeRepo(), clockwork.NewFakeClock())

	stats, err := app.Get(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 0 || stats.CurrentStreak != 0 || stats.LastSessionDate != nil {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRecordAcrossDays(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	app := NewApp(newFakeRepo(), clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := app.Record(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	clock.Advance(24 * time.Hour)
	stats, err := app.Record(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalSessions != 3 || stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if *stats.LastSessionDate != "2024-05-02" {
		t.Fatalf("last session date = %s", *stats.LastSessionDate)
	}

	got, err := app.Get(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSessions != 3 {
		t.Fatalf("Get after Record = %+v", got)
	}
}

func TestStorageFailuresSurface(t *testing.T) {
	repo := newFakeRepo()
	repo.err = apperr.Transient("get user stats", errors.New("connection refused"))
	app := NewApp(repo, nil)

	if _, err := app.Get(context.Background(), 1); apperr.KindOf(err) != apperr.KindTransient {
		t.Fatalf("Get error = %v", err)
	}
	if _, err := app.Record(context.Background(), 1); err == nil {
		t.Fatal("Record succeeded on a broken store")
	}
}
