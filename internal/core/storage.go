package core

import "context"

type ProfileStore interface {
	GetOrCreateProfile(ctx context.Context, userID string) (*UserProfile, error)
	RecordFacts(ctx context.Context, userID string, facts []Fact) (*UserProfile, error)
	IncrementConversationCount(ctx context.Context, userID string) error
}

type HistoryStore interface {
	AppendTurn(ctx context.Context, userID string, turn Turn) error
	Recent(ctx context.Context, userID string, limit int) ([]Turn, error)
}

type SessionStore interface {
	// GetSession returns nil without an error when the session is unknown.
	GetSession(ctx context.Context, sessionID string) (*SessionContext, error)
	SetMood(ctx context.Context, sessionID string, mood Mood) error
}

// Stores groups the three keyed collections the chatbot works with.
type Stores struct {
	Profiles ProfileStore
	History  HistoryStore
	Sessions SessionStore
}
