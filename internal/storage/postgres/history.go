package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/alexbot/internal/core"
)

type HistoryStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

func (s *HistoryStore) AppendTurn(ctx context.Context, userID string, turn core.Turn) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO turns (user_id, session_id, message, response, created_at) VALUES ($1, $2, $3, $4, $5)`,
			userID, turn.SessionID, turn.Message, turn.Response, turn.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert turn: %w", err)
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM turns
			WHERE user_id = $1 AND id NOT IN (
				SELECT id FROM turns WHERE user_id = $1 ORDER BY id DESC LIMIT $2
			)`,
			userID, core.MaxHistoryTurns,
		)
		if err != nil {
			return fmt.Errorf("evict turns: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: append turn: %w", core.ErrStoreFailure, err)
	}
	return nil
}

func (s *HistoryStore) Recent(ctx context.Context, userID string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		return []core.Turn{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT session_id, message, response, created_at
		 FROM turns WHERE user_id = $1 ORDER BY id DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent turns: %w", core.ErrStoreFailure, err)
	}
	defer rows.Close()

	turns := make([]core.Turn, 0, limit)
	for rows.Next() {
		var t core.Turn
		if err := rows.Scan(&t.SessionID, &t.Message, &t.Response, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan turn row: %w", core.ErrStoreFailure, err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate turn rows: %w", core.ErrStoreFailure, err)
	}

	// Reverse into chronological order for prompt coherence.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
