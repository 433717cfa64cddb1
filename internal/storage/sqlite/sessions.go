package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/alexbot/internal/core"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) GetSession(ctx context.Context, sessionID string) (*core.SessionContext, error) {
	var mood string
	err := r.db.QueryRowContext(ctx, `SELECT mood FROM sessions WHERE session_id = ?`, sessionID).Scan(&mood)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %w", core.ErrStoreFailure, err)
	}
	return &core.SessionContext{ID: sessionID, Mood: core.Mood(mood)}, nil
}

func (r *SessionsRepo) SetMood(ctx context.Context, sessionID string, mood core.Mood) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, mood) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET mood = excluded.mood`,
		sessionID, string(mood),
	)
	if err != nil {
		return fmt.Errorf("%w: save session mood: %w", core.ErrStoreFailure, err)
	}
	return nil
}
