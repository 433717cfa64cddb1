package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
)

// ProfileStore keeps user profiles for the lifetime of the process.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*core.UserProfile
	now      func() time.Time
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]*core.UserProfile),
		now:      time.Now,
	}
}

func (s *ProfileStore) GetOrCreateProfile(_ context.Context, userID string) (*core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(userID).Clone(), nil
}

func (s *ProfileStore) RecordFacts(_ context.Context, userID string, facts []core.Fact) (*core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.touch(userID)
	p.AddFacts(facts)
	return p.Clone(), nil
}

func (s *ProfileStore) IncrementConversationCount(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(userID).ConversationCount++
	return nil
}

// touch returns the live profile, creating it on first reference. Caller holds mu.
func (s *ProfileStore) touch(userID string) *core.UserProfile {
	now := s.now()
	p, ok := s.profiles[userID]
	if !ok {
		p = core.NewUserProfile(userID, now)
		s.profiles[userID] = p
		return p
	}
	p.LastSeen = now
	return p
}
