package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(t FactType, content string) Fact {
	return Fact{Type: t, Content: content, Confidence: DefaultFactConfidence, Timestamp: time.Unix(0, 0)}
}

func TestUserProfile_AddFacts(t *testing.T) {
	p := NewUserProfile("u1", time.Unix(0, 0))

	added := p.AddFacts([]Fact{
		fact(FactName, "Sarah"),
		fact(FactInterest, "Jazz"),
		fact(FactInterest, "jazz"),
	})
	assert.Len(t, added, 2)
	assert.Equal(t, []string{"Jazz"}, p.Themes)

	// same content under another type is a different fact
	added = p.AddFacts([]Fact{fact(FactName, "sarah"), fact(FactOccupation, "Sarah")})
	require.Len(t, added, 1)
	assert.Equal(t, FactOccupation, added[0].Type)
	assert.Len(t, p.Facts, 3)
}

func TestUserProfile_Clone(t *testing.T) {
	p := NewUserProfile("u1", time.Unix(0, 0))
	p.AddFacts([]Fact{fact(FactInterest, "jazz")})
	p.Preferences["tone"] = "casual"

	c := p.Clone()
	c.Facts[0].Content = "rock"
	c.Themes[0] = "rock"
	c.Preferences["tone"] = "formal"
	c.ConversationCount = 9

	assert.Equal(t, "jazz", p.Facts[0].Content)
	assert.Equal(t, []string{"jazz"}, p.Themes)
	assert.Equal(t, "casual", p.Preferences["tone"])
	assert.Equal(t, 0, p.ConversationCount)

	var nilProfile *UserProfile
	assert.Nil(t, nilProfile.Clone())
}

func TestSessionContext_MoodLabel(t *testing.T) {
	var none *SessionContext
	assert.Equal(t, "neutral", none.MoodLabel())
	assert.Equal(t, "neutral", (&SessionContext{ID: "s1"}).MoodLabel())
	assert.Equal(t, "sad", (&SessionContext{ID: "s1", Mood: MoodSad}).MoodLabel())
}
