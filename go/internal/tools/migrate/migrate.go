package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/dbconfig"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/schema"
)

func main() {
	ctx := context.Background()

	// 1) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 2) Apply every statement in one transaction
	stmts := schema.Statements()
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	// 3) Report
	var tables int
	err = pool.QueryRow(ctx, `
            SELECT count(*) FROM information_schema.tables
            WHERE table_schema = 'public'
        `).Scan(&tables)
	if err != nil {
		fmt.Fprintf(os.Stderr, "count tables: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ applied %d statements to %s, %d tables present\n", len(stmts), cfg.Database, tables)
}
