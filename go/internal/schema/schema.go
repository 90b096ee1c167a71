package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// SQL is the idempotent DDL for every table the server uses.
//
//go:embed schema.sql
var SQL string

// Execer is satisfied by *sql.DB and *sql.Tx
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Statements splits SQL into individual statements
func Statements() []string {
	var stmts []string
	for _, part := range strings.Split(SQL, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// Apply runs every statement in order. All statements are CREATE ... IF NOT
// EXISTS so Apply can run on every boot.
func Apply(ctx context.Context, db Execer) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
