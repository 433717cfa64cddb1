package core

import (
	"strings"
	"time"
)

const (
	AlexName          = "AlexBot"
	AlexUserAgent     = "AlexBot/0.1"
	AlexRepositoryURL = "https://github.com/sandevgo/alexbot"
	AlexVersion       = "0.1.0"
)

// MaxHistoryTurns is the number of turns kept per user. Older turns are evicted first.
const MaxHistoryTurns = 50

// DefaultFactConfidence is assigned to every pattern-extracted fact.
const DefaultFactConfidence = 0.8

type FactType string

const (
	FactName       FactType = "name"
	FactLocation   FactType = "location"
	FactInterest   FactType = "interest"
	FactOccupation FactType = "occupation"
	FactMood       FactType = "mood"
)

// Fact is a single claim a user made about themselves.
type Fact struct {
	Type       FactType  `json:"type"`
	Content    string    `json:"content"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
}

// Key identifies a fact for deduplication: type plus lowercased content.
func (f Fact) Key() string {
	return string(f.Type) + "\x00" + strings.ToLower(f.Content)
}

type UserProfile struct {
	ID                string         `json:"id"`
	Facts             []Fact         `json:"facts"`
	Themes            []string       `json:"themes"`
	Preferences       map[string]any `json:"preferences"`
	ConversationCount int            `json:"conversationCount"`
	FirstSeen         time.Time      `json:"firstSeen"`
	LastSeen          time.Time      `json:"lastSeen"`
}

func NewUserProfile(id string, now time.Time) *UserProfile {
	return &UserProfile{
		ID:          id,
		Facts:       []Fact{},
		Themes:      []string{},
		Preferences: map[string]any{},
		FirstSeen:   now,
		LastSeen:    now,
	}
}

// Clone returns a deep copy so callers never share a store's internal state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Facts = append(make([]Fact, 0, len(p.Facts)), p.Facts...)
	c.Themes = append(make([]string, 0, len(p.Themes)), p.Themes...)
	c.Preferences = make(map[string]any, len(p.Preferences))
	for k, v := range p.Preferences {
		c.Preferences[k] = v
	}
	return &c
}

// AddFacts appends facts that are not yet known and keeps Themes in sync.
// It returns the facts that were actually added.
func (p *UserProfile) AddFacts(facts []Fact) []Fact {
	known := make(map[string]struct{}, len(p.Facts))
	for _, f := range p.Facts {
		known[f.Key()] = struct{}{}
	}

	var added []Fact
	for _, f := range facts {
		if _, ok := known[f.Key()]; ok {
			continue
		}
		known[f.Key()] = struct{}{}
		p.Facts = append(p.Facts, f)
		added = append(added, f)

		if f.Type == FactInterest && !containsString(p.Themes, f.Content) {
			p.Themes = append(p.Themes, f.Content)
		}
	}
	return added
}

type Turn struct {
	SessionID string    `json:"sessionId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodCurious Mood = "curious"
)

// SessionContext is ephemeral state scoped to one conversation session.
type SessionContext struct {
	ID   string `json:"sessionId"`
	Mood Mood   `json:"mood,omitempty"`
}

// MoodLabel returns the mood or "neutral" when none was detected.
func (s *SessionContext) MoodLabel() string {
	if s == nil || s.Mood == "" {
		return "neutral"
	}
	return string(s.Mood)
}

// Generation is what a model client returns. Confidence is optional.
type Generation struct {
	Text       string
	Confidence *float64
}

// Reply is the result of one conversational turn.
type Reply struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
