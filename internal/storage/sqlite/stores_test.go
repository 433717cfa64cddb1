package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "alexbot.db")
}

func TestStores(t *testing.T) {
	storetest.Run(t, func(t *testing.T) core.Stores {
		db, err := NewDB(context.Background(), newTestDB(t))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewStores(db)
	})
}

func TestStores_SurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := newTestDB(t)

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	stores := NewStores(db)

	_, err = stores.Profiles.RecordFacts(ctx, "user-1", []core.Fact{{Type: core.FactInterest, Content: "jazz"}})
	require.NoError(t, err)
	require.NoError(t, stores.History.AppendTurn(ctx, "user-1", core.Turn{SessionID: "s1", Message: "hi", Response: "hello"}))
	require.NoError(t, stores.Sessions.SetMood(ctx, "s1", core.MoodCurious))
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	stores = NewStores(db)

	p, err := stores.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, p.Themes)

	turns, err := stores.History.Recent(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hello", turns[0].Response)

	sc, err := stores.Sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, core.MoodCurious, sc.Mood)
}

func TestStores_ClosedDBIsStoreFailure(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, newTestDB(t))
	require.NoError(t, err)
	stores := NewStores(db)
	require.NoError(t, db.Close())

	_, err = stores.Profiles.GetOrCreateProfile(ctx, "user-1")
	assert.ErrorIs(t, err, core.ErrStoreFailure)

	_, err = stores.History.Recent(ctx, "user-1", 5)
	assert.ErrorIs(t, err, core.ErrStoreFailure)
}
