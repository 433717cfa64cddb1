// Package postgres persists the keyed stores in PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/alexbot/internal/core"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			facts JSONB NOT NULL DEFAULT '[]'::jsonb,
			themes JSONB NOT NULL DEFAULT '[]'::jsonb,
			preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
			conversation_count INTEGER NOT NULL DEFAULT 0,
			first_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_seen TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user_id ON turns (user_id, id);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			mood TEXT NOT NULL DEFAULT ''
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func NewStores(pool *pgxpool.Pool) core.Stores {
	return core.Stores{
		Profiles: NewProfileStore(pool),
		History:  NewHistoryStore(pool),
		Sessions: NewSessionStore(pool),
	}
}
