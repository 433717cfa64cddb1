package inmem

import (
	"context"
	"sync"

	"github.com/sandevgo/alexbot/internal/core"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.SessionContext
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*core.SessionContext)}
}

func (s *SessionStore) GetSession(_ context.Context, sessionID string) (*core.SessionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	c := *sc
	return &c, nil
}

func (s *SessionStore) SetMood(_ context.Context, sessionID string, mood core.Mood) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.sessions[sessionID]
	if !ok {
		sc = &core.SessionContext{ID: sessionID}
		s.sessions[sessionID] = sc
	}
	sc.Mood = mood
	return nil
}
