package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_NewPerson(t *testing.T) {
	profile := core.NewUserProfile("u1", time.Now())

	prompt := BuildPrompt("hello there", profile, nil, nil, DefaultPersona())

	assert.True(t, strings.HasPrefix(prompt, "You are Alex. Here's who you are:"))
	assert.Contains(t, prompt, "This seems to be a new person you're meeting.")
	assert.NotContains(t, prompt, "What you know about this person")
	assert.NotContains(t, prompt, "Recent conversation context")
	assert.NotContains(t, prompt, "Current conversation mood/context")
	assert.Contains(t, prompt, `Current message from user: "hello there"`)
	assert.NotContains(t, prompt, "\n\n\n")
}

func TestBuildPrompt_FullContext(t *testing.T) {
	profile := core.NewUserProfile("u1", time.Now())
	profile.AddFacts([]core.Fact{
		{Type: core.FactName, Content: "Sarah"},
		{Type: core.FactInterest, Content: "jazz"},
	})
	history := []core.Turn{
		{Message: "first", Response: "reply one"},
		{Message: "second", Response: "reply two"},
	}
	session := &core.SessionContext{ID: "s1", Mood: core.MoodCurious}

	prompt := BuildPrompt("and now?", profile, history, session, DefaultPersona())

	expected := []string{
		"You are Alex. Here's who you are:",
		"What you know about this person:\n- Sarah\n- jazz\n\nConversation themes you've discussed: jazz",
		"Recent conversation context:\nUser: first\nYou: reply one\n\nUser: second\nYou: reply two",
		"Current conversation mood/context: curious",
		`Current message from user: "and now?"`,
		"Respond as Alex.",
	}

	last := -1
	for _, part := range expected {
		idx := strings.Index(prompt, part)
		if assert.GreaterOrEqual(t, idx, 0, "missing %q", part) {
			assert.Greater(t, idx, last, "section %q out of order", part)
			last = idx
		}
	}
}

func TestBuildPrompt_SessionWithoutMood(t *testing.T) {
	prompt := BuildPrompt("hi", nil, nil, &core.SessionContext{ID: "s1"}, DefaultPersona())
	assert.Contains(t, prompt, "Current conversation mood/context: neutral")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	profile := core.NewUserProfile("u1", time.Now())
	a := BuildPrompt("same", profile, nil, nil, DefaultPersona())
	b := BuildPrompt("same", profile, nil, nil, DefaultPersona())
	assert.Equal(t, a, b)
}
