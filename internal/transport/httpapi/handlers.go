package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	msgMissingFields = "userId and message are required"
	msgInternal      = "Internal server error"

	// timestampLayout matches JavaScript's Date.toISOString.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type chatRequest struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errEmptyBody = errors.New("empty body")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	resp, ok := s.chat(r, req)
	if !ok {
		respondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// chat runs one turn. The session id is generated here when the caller has none,
// so the turn and the response always agree on it.
func (s *Server) chat(r *http.Request, req chatRequest) (chatResponse, bool) {
	if req.UserID == "" || req.Message == "" {
		return chatResponse{}, false
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply := s.chatbot.GenerateResponse(r.Context(), req.UserID, req.Message, req.SessionID)

	return chatResponse{
		Response:  reply.Text,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Timestamp: s.now().UTC().Format(timestampLayout),
	}, true
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	profile, err := s.profiles.GetOrCreateProfile(r.Context(), userID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("user_id", userID).Msg("profile lookup failed")
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
