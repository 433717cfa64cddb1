// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty set of stores for one subtest.
type Factory func(t *testing.T) core.Stores

func Run(t *testing.T, newStores Factory) {
	t.Run("profile created lazily", func(t *testing.T) { testProfileCreated(t, newStores(t)) })
	t.Run("last seen refreshed", func(t *testing.T) { testLastSeen(t, newStores(t)) })
	t.Run("facts deduplicated", func(t *testing.T) { testFactDedup(t, newStores(t)) })
	t.Run("themes first seen casing", func(t *testing.T) { testThemes(t, newStores(t)) })
	t.Run("conversation count", func(t *testing.T) { testConversationCount(t, newStores(t)) })
	t.Run("profile snapshots", func(t *testing.T) { testSnapshots(t, newStores(t)) })
	t.Run("history eviction", func(t *testing.T) { testHistoryEviction(t, newStores(t)) })
	t.Run("history recent window", func(t *testing.T) { testHistoryRecent(t, newStores(t)) })
	t.Run("unknown session", func(t *testing.T) { testUnknownSession(t, newStores(t)) })
	t.Run("session mood", func(t *testing.T) { testSessionMood(t, newStores(t)) })
}

func fact(typ core.FactType, content string) core.Fact {
	return core.Fact{
		Type:       typ,
		Content:    content,
		Confidence: core.DefaultFactConfidence,
		Source:     "src: " + content,
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func testProfileCreated(t *testing.T, s core.Stores) {
	ctx := context.Background()

	p, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Empty(t, p.Facts)
	assert.Empty(t, p.Themes)
	assert.NotNil(t, p.Preferences)
	assert.Zero(t, p.ConversationCount)
	assert.False(t, p.FirstSeen.IsZero())
	assert.False(t, p.LastSeen.Before(p.FirstSeen))
}

func testLastSeen(t *testing.T, s core.Stores) {
	ctx := context.Background()

	first, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)

	assert.True(t, second.LastSeen.After(first.LastSeen))
	assert.True(t, second.FirstSeen.Equal(first.FirstSeen))
}

func testFactDedup(t *testing.T, s core.Stores) {
	ctx := context.Background()

	_, err := s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{fact(core.FactLocation, "Boston")})
	require.NoError(t, err)
	p, err := s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{fact(core.FactLocation, "boston")})
	require.NoError(t, err)
	require.Len(t, p.Facts, 1)
	assert.Equal(t, "Boston", p.Facts[0].Content)

	// same content under a different type is a different fact
	p, err = s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{fact(core.FactName, "Boston")})
	require.NoError(t, err)
	assert.Len(t, p.Facts, 2)

	// a changed value does not supersede the old one
	p, err = s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{fact(core.FactLocation, "Denver")})
	require.NoError(t, err)
	assert.Len(t, p.Facts, 3)
}

func testThemes(t *testing.T, s core.Stores) {
	ctx := context.Background()

	_, err := s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{fact(core.FactInterest, "Jazz")})
	require.NoError(t, err)
	_, err = s.Profiles.RecordFacts(ctx, "user-1", []core.Fact{
		fact(core.FactInterest, "jazz"),
		fact(core.FactInterest, "hiking"),
		fact(core.FactName, "Sam"),
	})
	require.NoError(t, err)

	p, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz", "hiking"}, p.Themes)
	assert.Len(t, p.Facts, 3)
}

func testConversationCount(t *testing.T, s core.Stores) {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Profiles.IncrementConversationCount(ctx, "user-1"))
	}
	p, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.ConversationCount)
}

func testSnapshots(t *testing.T, s core.Stores) {
	ctx := context.Background()

	p, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	p.Preferences["tone"] = "casual"
	p.Facts = append(p.Facts, fact(core.FactName, "Ghost"))

	again, err := s.Profiles.GetOrCreateProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, again.Preferences)
	assert.Empty(t, again.Preferences)
	assert.Empty(t, again.Facts)
}

func testHistoryEviction(t *testing.T, s core.Stores) {
	ctx := context.Background()

	for i := 1; i <= core.MaxHistoryTurns+1; i++ {
		err := s.History.AppendTurn(ctx, "user-1", core.Turn{
			SessionID: "s1",
			Message:   fmt.Sprintf("message %d", i),
			Response:  fmt.Sprintf("response %d", i),
			Timestamp: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	turns, err := s.History.Recent(ctx, "user-1", core.MaxHistoryTurns)
	require.NoError(t, err)
	require.Len(t, turns, core.MaxHistoryTurns)
	assert.Equal(t, "message 2", turns[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", core.MaxHistoryTurns+1), turns[len(turns)-1].Message)

	all, err := s.History.Recent(ctx, "user-1", 1000)
	require.NoError(t, err)
	assert.Len(t, all, core.MaxHistoryTurns)
}

func testHistoryRecent(t *testing.T, s core.Stores) {
	ctx := context.Background()

	empty, err := s.History.Recent(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 1; i <= 7; i++ {
		require.NoError(t, s.History.AppendTurn(ctx, "user-1", core.Turn{
			SessionID: "s1",
			Message:   fmt.Sprintf("m%d", i),
			Response:  fmt.Sprintf("r%d", i),
			Timestamp: time.Now().UTC(),
		}))
	}

	turns, err := s.History.Recent(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Len(t, turns, 5)
	assert.Equal(t, "m3", turns[0].Message)
	assert.Equal(t, "r7", turns[4].Response)
	assert.Equal(t, "s1", turns[4].SessionID)

	none, err := s.History.Recent(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testUnknownSession(t *testing.T, s core.Stores) {
	sc, err := s.Sessions.GetSession(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, sc)
}

func testSessionMood(t *testing.T, s core.Stores) {
	ctx := context.Background()

	require.NoError(t, s.Sessions.SetMood(ctx, "s1", core.MoodSad))
	require.NoError(t, s.Sessions.SetMood(ctx, "s1", core.MoodHappy))

	sc, err := s.Sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, "s1", sc.ID)
	assert.Equal(t, core.MoodHappy, sc.Mood)
}
