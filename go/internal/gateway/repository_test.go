package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/schema"
	_ "github.com/lib/pq"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	if err := schema.Apply(ctx, conn); err != nil {
		t.Fatal(err)
	}
	return conn
}

func TestRepositoryKeepsNewestSnapshot(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	var userID int64
	username := fmt.Sprintf("snapshot-%d", time.Now().UnixNano())
	err := conn.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, 'x') RETURNING id`, username,
	).Scan(&userID)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Exec(`DELETE FROM users WHERE id = $1`, userID) })

	repo := NewRepository(conn)

	if _, err := repo.GetTimerSnapshot(ctx, userID); !apperr.IsNotFound(err) {
		t.Fatalf("empty lookup err = %v", err)
	}

	steps := []struct {
		version uint64
		payload string
		saved   bool
	}{
		{2, `{"seconds":10,"version":2}`, true},
		{1, `{"seconds":99,"version":1}`, false},
		{2, `{"seconds":98,"version":2}`, false},
		{5, `{"seconds":7,"version":5}`, true},
	}
	for _, step := range steps {
		saved, err := repo.SaveTimerSnapshot(ctx, userID, step.version, []byte(step.payload))
		if err != nil {
			t.Fatal(err)
		}
		if saved != step.saved {
			t.Fatalf("save version %d = %v, want %v", step.version, saved, step.saved)
		}
	}

	snap, err := repo.GetTimerSnapshot(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Version != 5 {
		t.Fatalf("stored version = %d", snap.Version)
	}

	if _, err := repo.SaveTimerSnapshot(ctx, userID, 9, []byte("{broken")); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("invalid payload err = %v", err)
	}
}
