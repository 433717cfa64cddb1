package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/observability"
	"github.com/sandevgo/alexbot/internal/storage/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct{}

func (testConfig) GetAddr() string             { return ":0" }
func (testConfig) GetAllowedOrigins() []string { return []string{"*"} }

type call struct {
	userID, message, sessionID string
}

type stubChatbot struct {
	mu    sync.Mutex
	calls []call
}

func (s *stubChatbot) GenerateResponse(ctx context.Context, userID, message, sessionID string) core.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{userID, message, sessionID})
	return core.Reply{Text: "Hi " + userID, Confidence: 0.8}
}

func (s *stubChatbot) last() call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func newTestServer(t *testing.T) (*httptest.Server, *stubChatbot, core.Stores) {
	t.Helper()
	bot := &stubChatbot{}
	stores := inmem.NewStores()
	reg := prometheus.NewRegistry()
	observability.NewMetrics("test", reg).ObserveTurn("ok")

	s := New(testConfig{}, bot, stores.Profiles, reg)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Router(context.Background()))
	t.Cleanup(ts.Close)
	return ts, bot, stores
}

func postChat(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestChat(t *testing.T) {
	ts, bot, _ := newTestServer(t)

	resp, out := postChat(t, ts, `{"userId":"u1","message":"hello","sessionId":"s1"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"response":  "Hi u1",
		"userId":    "u1",
		"sessionId": "s1",
		"timestamp": "2024-03-01T12:00:00.000Z",
	}, out)
	assert.Equal(t, call{"u1", "hello", "s1"}, bot.last())
}

func TestChat_GeneratesSessionID(t *testing.T) {
	ts, bot, _ := newTestServer(t)

	_, out := postChat(t, ts, `{"userId":"u1","message":"hello"}`)

	sessionID, _ := out["sessionId"].(string)
	_, err := uuid.Parse(sessionID)
	require.NoError(t, err)
	// the turn used the same id that was returned
	assert.Equal(t, sessionID, bot.last().sessionID)
}

func TestChat_BadRequest(t *testing.T) {
	ts, bot, _ := newTestServer(t)

	for _, body := range []string{
		`{"message":"hello"}`,
		`{"userId":"u1"}`,
		`{"userId":"","message":""}`,
		``,
		`{not json`,
	} {
		resp, out := postChat(t, ts, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, map[string]any{"error": "userId and message are required"}, out, body)
	}
	assert.Empty(t, bot.calls)
}

func TestProfile(t *testing.T) {
	ts, _, stores := newTestServer(t)

	_, err := stores.Profiles.RecordFacts(context.Background(), "u1", []core.Fact{
		{Type: core.FactInterest, Content: "jazz", Confidence: 0.8, Timestamp: time.Now()},
	})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/user/u1/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile core.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, []string{"jazz"}, profile.Themes)
	assert.Equal(t, 0, profile.ConversationCount)
}

func TestProfile_CreatedLazily(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/user/newcomer/profile")
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "newcomer", raw["id"])
	assert.Equal(t, []any{}, raw["facts"])
	assert.Contains(t, raw, "conversationCount")
	assert.Contains(t, raw, "firstSeen")
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_turns_total")
}

func TestCORS(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestChatWS(t *testing.T) {
	ts, bot, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"userId": "u1", "message": "one"}))
	var first chatResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "Hi u1", first.Response)

	require.NoError(t, conn.WriteJSON(map[string]string{"userId": "u1", "message": "two"}))
	var second chatResponse
	require.NoError(t, conn.ReadJSON(&second))

	// frames without a session id share the connection's session
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.SessionID, bot.last().sessionID)

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "no user"}))
	var errResp errorResponse
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Equal(t, msgMissingFields, errResp.Error)
}

func TestCheckOrigin(t *testing.T) {
	s := New(restrictedConfig{}, &stubChatbot{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "http://alex.local/api/chat/ws", nil)
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "http://alex.local")
	assert.True(t, s.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, s.checkOrigin(req))
}

type restrictedConfig struct{}

func (restrictedConfig) GetAddr() string             { return ":0" }
func (restrictedConfig) GetAllowedOrigins() []string { return []string{"https://app.example"} }
