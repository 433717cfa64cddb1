package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/alexbot/internal/core"
)

type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*core.SessionContext, error) {
	var mood string
	err := s.pool.QueryRow(ctx, `SELECT mood FROM sessions WHERE session_id = $1`, sessionID).Scan(&mood)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %w", core.ErrStoreFailure, err)
	}
	return &core.SessionContext{ID: sessionID, Mood: core.Mood(mood)}, nil
}

func (s *SessionStore) SetMood(ctx context.Context, sessionID string, mood core.Mood) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, mood) VALUES ($1, $2)
		ON CONFLICT (session_id) DO UPDATE SET mood = EXCLUDED.mood`,
		sessionID, string(mood),
	)
	if err != nil {
		return fmt.Errorf("%w: save session mood: %w", core.ErrStoreFailure, err)
	}
	return nil
}
