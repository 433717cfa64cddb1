package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/pkg/log"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (h *HistoryRepo) AppendTurn(ctx context.Context, userID string, turn core.Turn) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", core.ErrStoreFailure, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (user_id, session_id, message, response, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, turn.SessionID, turn.Message, turn.Response, formatTime(turn.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert turn: %w", core.ErrStoreFailure, err)
	}

	// Keep only the newest MaxHistoryTurns rows for this user.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM turns
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM turns WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`,
		userID, userID, core.MaxHistoryTurns,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to evict turns: %w", core.ErrStoreFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrStoreFailure, err)
	}
	return nil
}

func (h *HistoryRepo) Recent(ctx context.Context, userID string, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		return []core.Turn{}, nil
	}

	// Fetch the LAST 'limit' turns by ordering DESC
	rows, err := h.db.QueryContext(ctx,
		`SELECT session_id, message, response, created_at FROM turns WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query turns: %w", core.ErrStoreFailure, err)
	}
	defer rows.Close()

	turns := make([]core.Turn, 0, limit)
	for rows.Next() {
		var (
			t         core.Turn
			createdAt string
		)
		if err := rows.Scan(&t.SessionID, &t.Message, &t.Response, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan turn: %w", core.ErrStoreFailure, err)
		}
		if t.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrStoreFailure, err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStoreFailure, err)
	}

	// Newest -> Oldest from the query; callers want chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded history turns")
	return turns, nil
}
