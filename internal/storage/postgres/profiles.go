package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sandevgo/alexbot/internal/core"
)

type ProfileStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool, now: time.Now}
}

func (s *ProfileStore) GetOrCreateProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	var profile *core.UserProfile
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		p, err := s.touch(ctx, tx, userID)
		profile = p
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %w", core.ErrStoreFailure, err)
	}
	return profile, nil
}

func (s *ProfileStore) RecordFacts(ctx context.Context, userID string, facts []core.Fact) (*core.UserProfile, error) {
	var profile *core.UserProfile
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		p, err := s.touch(ctx, tx, userID)
		if err != nil {
			return err
		}
		profile = p
		if len(p.AddFacts(facts)) == 0 {
			return nil
		}

		factsJSON, err := json.Marshal(p.Facts)
		if err != nil {
			return fmt.Errorf("marshal facts: %w", err)
		}
		themesJSON, err := json.Marshal(p.Themes)
		if err != nil {
			return fmt.Errorf("marshal themes: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE profiles SET facts = $1, themes = $2 WHERE user_id = $3`,
			factsJSON, themesJSON, userID,
		)
		if err != nil {
			return fmt.Errorf("update facts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: record facts: %w", core.ErrStoreFailure, err)
	}
	return profile, nil
}

func (s *ProfileStore) IncrementConversationCount(ctx context.Context, userID string) error {
	now := s.now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, conversation_count, first_seen, last_seen) VALUES ($1, 1, $2, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET conversation_count = profiles.conversation_count + 1, last_seen = EXCLUDED.last_seen`,
		userID, now,
	)
	if err != nil {
		return fmt.Errorf("%w: increment conversation count: %w", core.ErrStoreFailure, err)
	}
	return nil
}

// touch upserts the row, refreshes last_seen and locks the row for the rest of tx.
func (s *ProfileStore) touch(ctx context.Context, tx pgx.Tx, userID string) (*core.UserProfile, error) {
	now := s.now().UTC()

	var (
		p                                = core.UserProfile{ID: userID}
		factsJSON, themesJSON, prefsJSON []byte
	)
	err := tx.QueryRow(ctx, `
		INSERT INTO profiles (user_id, first_seen, last_seen) VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_seen = EXCLUDED.last_seen
		RETURNING facts, themes, preferences, conversation_count, first_seen, last_seen`,
		userID, now,
	).Scan(&factsJSON, &themesJSON, &prefsJSON, &p.ConversationCount, &p.FirstSeen, &p.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	p.Facts = []core.Fact{}
	p.Themes = []string{}
	p.Preferences = map[string]any{}
	if err := json.Unmarshal(factsJSON, &p.Facts); err != nil {
		return nil, fmt.Errorf("unmarshal facts: %w", err)
	}
	if err := json.Unmarshal(themesJSON, &p.Themes); err != nil {
		return nil, fmt.Errorf("unmarshal themes: %w", err)
	}
	if err := json.Unmarshal(prefsJSON, &p.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal preferences: %w", err)
	}
	if p.Preferences == nil {
		p.Preferences = map[string]any{}
	}
	return &p, nil
}
