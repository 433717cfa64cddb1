package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
)

type ProfilesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db, now: time.Now}
}

func (r *ProfilesRepo) GetOrCreateProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	var profile *core.UserProfile
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		p, err := r.touch(ctx, tx, userID)
		profile = p
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %w", core.ErrStoreFailure, err)
	}
	return profile, nil
}

func (r *ProfilesRepo) RecordFacts(ctx context.Context, userID string, facts []core.Fact) (*core.UserProfile, error) {
	var profile *core.UserProfile
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		p, err := r.touch(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(p.AddFacts(facts)) == 0 {
			profile = p
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

		_, err = tx.ExecContext(ctx,
			`UPDATE profiles SET facts = ?, themes = ? WHERE user_id = ?`,
			string(factsJSON), string(themesJSON), userID,
		)
		if err != nil {
			return fmt.Errorf("update facts: %w", err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: record facts: %w", core.ErrStoreFailure, err)
	}
	return profile, nil
}

func (r *ProfilesRepo) IncrementConversationCount(ctx context.Context, userID string) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := r.touch(ctx, tx, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE profiles SET conversation_count = conversation_count + 1 WHERE user_id = ?`, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: increment conversation count: %w", core.ErrStoreFailure, err)
	}
	return nil
}

// touch creates the profile row if needed, refreshes last_seen and loads it.
func (r *ProfilesRepo) touch(ctx context.Context, tx *sql.Tx, userID string) (*core.UserProfile, error) {
	now := formatTime(r.now())

	_, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, first_seen, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_seen = excluded.last_seen`,
		userID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	var (
		p                                = core.UserProfile{ID: userID}
		factsJSON, themesJSON, prefsJSON string
		firstSeen, lastSeen              string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT facts, themes, preferences, conversation_count, first_seen, last_seen
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&factsJSON, &themesJSON, &prefsJSON, &p.ConversationCount, &firstSeen, &lastSeen)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if err := decodeProfile(&p, factsJSON, themesJSON, prefsJSON); err != nil {
		return nil, err
	}
	if p.FirstSeen, err = parseTime(firstSeen); err != nil {
		return nil, err
	}
	if p.LastSeen, err = parseTime(lastSeen); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfilesRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func decodeProfile(p *core.UserProfile, factsJSON, themesJSON, prefsJSON string) error {
	p.Facts = []core.Fact{}
	p.Themes = []string{}
	p.Preferences = map[string]any{}

	if err := json.Unmarshal([]byte(factsJSON), &p.Facts); err != nil {
		return fmt.Errorf("unmarshal facts: %w", err)
	}
	if err := json.Unmarshal([]byte(themesJSON), &p.Themes); err != nil {
		return fmt.Errorf("unmarshal themes: %w", err)
	}
	if err := json.Unmarshal([]byte(prefsJSON), &p.Preferences); err != nil {
		return fmt.Errorf("unmarshal preferences: %w", err)
	}
	if p.Facts == nil {
		p.Facts = []core.Fact{}
	}
	if p.Themes == nil {
		p.Themes = []string{}
	}
	if p.Preferences == nil {
		p.Preferences = map[string]any{}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
