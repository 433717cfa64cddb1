package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/observability"
	"github.com/sandevgo/alexbot/internal/service/memory"
	"github.com/sandevgo/alexbot/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	gen     core.Generation
	err     error
	hang    bool
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.hang {
		select {}
	}
	return m.gen, m.err
}

func (m *fakeModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

type failingHistory struct {
	core.HistoryStore
}

func (failingHistory) AppendTurn(context.Context, string, core.Turn) error {
	return errors.New("disk full")
}

func ptr(v float64) *float64 { return &v }

func newTestChatbot(model core.ModelClient, opts Options) (*Chatbot, core.Stores) {
	stores := inmem.NewStores()
	return NewChatbot(stores, model, memory.DefaultPersona(), nil, opts), stores
}

func TestGenerateResponse_Success(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{gen: core.Generation{Text: "Nice to meet you, Sarah!"}}
	bot, stores := newTestChatbot(model, Options{})

	reply := bot.GenerateResponse(ctx, "u1", "My name is Sarah and I love jazz", "s1")

	assert.Equal(t, "Nice to meet you, Sarah!", reply.Text)
	assert.Equal(t, DefaultConfidence, reply.Confidence)

	// facts recorded in the same turn are already in the prompt
	prompt := model.lastPrompt()
	assert.Contains(t, prompt, "- Sarah\n")
	assert.Contains(t, prompt, "- jazz\n")
	assert.Contains(t, prompt, `Current message from user: "My name is Sarah and I love jazz"`)

	profile, err := stores.Profiles.GetOrCreateProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.ConversationCount)
	assert.Equal(t, []string{"jazz"}, profile.Themes)
	assert.Len(t, profile.Facts, 2)

	history, err := stores.History.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "s1", history[0].SessionID)
	assert.Equal(t, "Nice to meet you, Sarah!", history[0].Response)
}

func TestGenerateResponse_ModelConfidence(t *testing.T) {
	model := &fakeModel{gen: core.Generation{Text: "sure", Confidence: ptr(0.55)}}
	bot, _ := newTestChatbot(model, Options{})

	reply := bot.GenerateResponse(context.Background(), "u1", "hello", "s1")
	assert.Equal(t, 0.55, reply.Confidence)
}

func TestGenerateResponse_HistoryInLaterPrompt(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{gen: core.Generation{Text: "ok"}}
	bot, _ := newTestChatbot(model, Options{HistoryWindow: 2})

	for _, msg := range []string{"first", "second", "third"} {
		bot.GenerateResponse(ctx, "u1", msg, "s1")
	}
	bot.GenerateResponse(ctx, "u1", "fourth", "s1")

	prompt := model.lastPrompt()
	assert.NotContains(t, prompt, "User: first")
	assert.Contains(t, prompt, "User: second")
	assert.Contains(t, prompt, "User: third")
	assert.Less(t, strings.Index(prompt, "User: second"), strings.Index(prompt, "User: third"))
}

func TestGenerateResponse_Mood(t *testing.T) {
	ctx := context.Background()
	model := &fakeModel{gen: core.Generation{Text: "ok"}}
	bot, stores := newTestChatbot(model, Options{})

	bot.GenerateResponse(ctx, "u1", "I am so happy today", "s1")

	session, err := stores.Sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, core.MoodHappy, session.Mood)

	bot.GenerateResponse(ctx, "u1", "tell me more", "s1")
	assert.Contains(t, model.lastPrompt(), "Current conversation mood/context: happy")

	// a message without a mood keyword keeps the previous mood
	session, err = stores.Sessions.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.MoodHappy, session.Mood)
}

func TestGenerateResponse_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  core.Generation
		err  error
	}{
		{name: "model error", err: errors.New("upstream 500")},
		{name: "empty text", gen: core.Generation{Text: "   "}},
		{name: "confidence above one", gen: core.Generation{Text: "hi", Confidence: ptr(1.5)}},
		{name: "negative confidence", gen: core.Generation{Text: "hi", Confidence: ptr(-0.1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			model := &fakeModel{gen: tt.gen, err: tt.err}
			bot, stores := newTestChatbot(model, Options{})

			reply := bot.GenerateResponse(ctx, "u1", "My name is Sarah and I am so happy", "s1")
			assert.Equal(t, Fallback(), reply)

			profile, err := stores.Profiles.GetOrCreateProfile(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 0, profile.ConversationCount)
			// facts recorded before the model call are kept
			assert.Len(t, profile.Facts, 1)

			history, err := stores.History.Recent(ctx, "u1", 10)
			require.NoError(t, err)
			assert.Empty(t, history)

			session, err := stores.Sessions.GetSession(ctx, "s1")
			require.NoError(t, err)
			assert.Nil(t, session)
		})
	}
}

func TestGenerateResponse_HangingModel(t *testing.T) {
	model := &fakeModel{hang: true}

	t.Run("model timeout", func(t *testing.T) {
		bot, _ := newTestChatbot(model, Options{ModelTimeout: 20 * time.Millisecond})
		reply := bot.GenerateResponse(context.Background(), "u1", "hello", "s1")
		assert.Equal(t, FallbackText, reply.Text)
	})

	t.Run("caller deadline", func(t *testing.T) {
		bot, stores := newTestChatbot(model, Options{})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		reply := bot.GenerateResponse(ctx, "u1", "hello", "s1")
		assert.Equal(t, FallbackConfidence, reply.Confidence)

		history, err := stores.History.Recent(context.Background(), "u1", 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestGenerateResponse_StoreFailure(t *testing.T) {
	ctx := context.Background()
	stores := inmem.NewStores()
	stores.History = failingHistory{HistoryStore: stores.History}
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	bot := NewChatbot(stores, &fakeModel{gen: core.Generation{Text: "ok"}}, memory.DefaultPersona(), metrics, Options{})

	reply := bot.GenerateResponse(ctx, "u1", "hi", "s1")
	assert.Equal(t, Fallback(), reply)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Turns.WithLabelValues("store_failure")))

	profile, err := stores.Profiles.GetOrCreateProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.ConversationCount)
}

type countingModel struct {
	active  atomic.Int32
	overlap atomic.Bool
}

func (m *countingModel) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	if m.active.Add(1) > 1 {
		m.overlap.Store(true)
	}
	time.Sleep(5 * time.Millisecond)
	m.active.Add(-1)
	return core.Generation{Text: "ok"}, nil
}

func TestGenerateResponse_SerializeUsers(t *testing.T) {
	ctx := context.Background()
	model := &countingModel{}
	bot, stores := newTestChatbot(model, Options{SerializeUsers: true})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.GenerateResponse(ctx, "u1", "hello", "s1")
		}()
	}
	wg.Wait()

	assert.False(t, model.overlap.Load())

	profile, err := stores.Profiles.GetOrCreateProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, profile.ConversationCount)
	assert.Equal(t, 0, bot.locker.size())
}
