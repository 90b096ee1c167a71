package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/users/db"
	"github.com/lib/pq"
)

type stubQuerier struct {
	err error
}

func (s stubQuerier) CreateUser(context.Context, db.CreateUserParams) (db.User, error) {
	return db.User{}, s.err
}

func (s stubQuerier) GetUserByUsername(context.Context, string) (db.User, error) {
	return db.User{}, s.err
}

func TestRepositoryClassifiesDriverErrors(t *testing.T) {
	ctx := context.Background()

	dup := NewRepository(stubQuerier{err: &pq.Error{Code: "23505", Message: "duplicate key value"}})
	if _, err := dup.CreateUser(ctx, "fern", "hash"); apperr.Message(err) != "Username already exists" {
		t.Fatalf("unique violation mapped to %v", err)
	}

	missing := NewRepository(stubQuerier{err: sql.ErrNoRows})
	if _, err := missing.GetUserByUsername(ctx, "fern"); !apperr.IsNotFound(err) {
		t.Fatalf("no rows mapped to %v", err)
	}

	broken := NewRepository(stubQuerier{err: sql.ErrConnDone})
	if _, err := broken.GetUserByUsername(ctx, "fern"); apperr.KindOf(err) != apperr.KindTransient {
		t.Fatalf("driver failure mapped to %v", err)
	}
}
