package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	wsReadLimit    = 64 << 10
	wsIdleTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// handleChatWS keeps one conversation open over a websocket. Every text frame is a
// chat request; the connection supplies a session id when the frame has none.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connSessionID := uuid.NewString()
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

		var out any
		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			out = errorResponse{Error: msgMissingFields}
		} else {
			if req.SessionID == "" {
				req.SessionID = connSessionID
			}
			if resp, ok := s.chat(r, req); ok {
				out = resp
			} else {
				out = errorResponse{Error: msgMissingFields}
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(out); err != nil {
			logger.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}
