package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONServer(t *testing.T, check func(r *http.Request, body map[string]any), status int, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(data, &body))
		check(r, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompatible_Generate(t *testing.T) {
	srv := newJSONServer(t, func(r *http.Request, body map[string]any) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "gpt-test", body["model"])

		messages := body["messages"].([]any)
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "hello prompt", msg["content"])
	}, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`)

	p := NewCustomOpenAI(srv.URL, "sk-test", "gpt-test")
	gen, err := p.Generate(context.Background(), "hello prompt")
	require.NoError(t, err)
	assert.Equal(t, "hi there", gen.Text)
	assert.Nil(t, gen.Confidence)
}

func TestOpenAICompatible_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := newJSONServer(t, func(*http.Request, map[string]any) {}, http.StatusTooManyRequests, `{"error":"slow down"}`)

		_, err := NewCustomOpenAI(srv.URL, "", "m").Generate(context.Background(), "x")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusTooManyRequests, se.Code)
		assert.True(t, se.Retryable())
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := newJSONServer(t, func(*http.Request, map[string]any) {}, http.StatusOK, `{"choices":[]}`)

		_, err := NewCustomOpenAI(srv.URL, "", "m").Generate(context.Background(), "x")
		assert.ErrorContains(t, err, "empty choices")
	})
}

func TestOpenRouter_Headers(t *testing.T) {
	srv := newJSONServer(t, func(r *http.Request, _ map[string]any) {
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))
		assert.NotEmpty(t, r.Header.Get("X-Title"))
	}, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)

	p := NewOpenRouter("key", "m")
	p.baseURL = srv.URL

	gen, err := p.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", gen.Text)
}

func TestAnthropic_Generate(t *testing.T) {
	srv := newJSONServer(t, func(r *http.Request, body map[string]any) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ant-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.Equal(t, "claude-test", body["model"])
	}, http.StatusOK, `{"content":[{"type":"text","text":"Hello "},{"type":"tool_use"},{"type":"text","text":"Sarah"}]}`)

	p := NewAnthropic("ant-key", "claude-test")
	p.baseURL = srv.URL

	gen, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello Sarah", gen.Text)
}

func TestGemini_Generate(t *testing.T) {
	srv := newJSONServer(t, func(r *http.Request, body map[string]any) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))

		contents := body["contents"].([]any)
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]any)["parts"].([]any)
		assert.Equal(t, "the prompt", parts[0].(map[string]any)["text"])
	}, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi "},{"text":"friend"}]}}]}`)

	p := NewGemini("g-key", "gemini-test")
	p.baseURL = srv.URL

	gen, err := p.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hi friend", gen.Text)
}

func TestGemini_DefaultsAndErrors(t *testing.T) {
	assert.Equal(t, DefaultGeminiModel, NewGemini("k", "").model)

	srv := newJSONServer(t, func(*http.Request, map[string]any) {}, http.StatusOK, `{"candidates":[]}`)
	p := NewGemini("k", "m")
	p.baseURL = srv.URL

	_, err := p.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "empty candidates")
}

func TestEcho_Generate(t *testing.T) {
	prompt := "You are Alex.\n\nCurrent message from user: \"I love \"jazz\"\"\n\nRespond as Alex."

	gen, err := NewEcho().Generate(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, `You said: I love "jazz"`, gen.Text)
	require.NotNil(t, gen.Confidence)
	assert.Equal(t, 1.0, *gen.Confidence)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewEcho().Generate(ctx, prompt)
	assert.ErrorIs(t, err, context.Canceled)
}
