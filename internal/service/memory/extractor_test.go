package memory

import (
	"testing"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFacts_SinglePatterns(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		message  string
		wantType core.FactType
		want     string
	}{
		{"name via my name is", "My name is Sarah", core.FactName, "Sarah"},
		{"name via call me", "you can call me Sam.", core.FactName, "Sam"},
		{"location via live in", "I live in New York, it's busy", core.FactLocation, "New York"},
		{"interest via enjoy", "I enjoy long walks on the beach!", core.FactInterest, "long walks on the beach"},
		{"interest via like", "honestly I LIKE pizza", core.FactInterest, "pizza"},
		{"occupation via work as", "I work as  a nurse .", core.FactOccupation, "a nurse"},
		{"occupation via job", "my job is teaching kids?", core.FactOccupation, "teaching kids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := ExtractFacts(tt.message, now)

			var found *core.Fact
			for i := range facts {
				if facts[i].Type == tt.wantType {
					found = &facts[i]
				}
			}
			require.NotNil(t, found, "no %s fact in %+v", tt.wantType, facts)
			assert.Equal(t, tt.want, found.Content)
			assert.Equal(t, 0.8, found.Confidence)
			assert.Equal(t, tt.message, found.Source)
			assert.Equal(t, now, found.Timestamp)
		})
	}
}

func TestExtractFacts_NameAndInterest(t *testing.T) {
	facts := ExtractFacts("I'm Sarah and I love jazz", time.Now())

	require.Len(t, facts, 2)
	assert.Equal(t, core.FactName, facts[0].Type)
	assert.Equal(t, "Sarah", facts[0].Content)
	assert.Equal(t, core.FactInterest, facts[1].Type)
	assert.Equal(t, "jazz", facts[1].Content)
}

func TestExtractFacts_MoodPhrase(t *testing.T) {
	facts := ExtractFacts("Today I feel tired, honestly", time.Now())

	require.Len(t, facts, 1)
	assert.Equal(t, core.FactMood, facts[0].Type)
	assert.Equal(t, "tired", facts[0].Content)
}

func TestExtractFacts_NoMatch(t *testing.T) {
	assert.Empty(t, ExtractFacts("what a lovely day", time.Now()))
	assert.Empty(t, ExtractFacts("", time.Now()))
}

func TestExtractFacts_BlankCaptureSkipped(t *testing.T) {
	facts := ExtractFacts("I love   !", time.Now())
	assert.Empty(t, facts)
}

func TestExtractFacts_UpdateIsNewFact(t *testing.T) {
	first := ExtractFacts("I live in Denver", time.Now())
	second := ExtractFacts("I live in Boston now", time.Now())

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "Denver", first[0].Content)
	assert.Equal(t, "Boston now", second[0].Content)
}
