package inmem

import (
	"context"
	"sync"

	"github.com/sandevgo/alexbot/internal/core"
)

type HistoryStore struct {
	mu    sync.RWMutex
	turns map[string][]core.Turn
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{turns: make(map[string][]core.Turn)}
}

func (s *HistoryStore) AppendTurn(_ context.Context, userID string, turn core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr := append(s.turns[userID], turn)
	if over := len(arr) - core.MaxHistoryTurns; over > 0 {
		arr = append([]core.Turn(nil), arr[over:]...)
	}
	s.turns[userID] = arr
	return nil
}

func (s *HistoryStore) Recent(_ context.Context, userID string, limit int) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arr := s.turns[userID]
	if len(arr) == 0 || limit <= 0 {
		return []core.Turn{}, nil
	}
	if limit > len(arr) {
		limit = len(arr)
	}
	out := make([]core.Turn, limit)
	copy(out, arr[len(arr)-limit:])
	return out, nil
}
