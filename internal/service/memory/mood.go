package memory

import (
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

type moodKeywords struct {
	mood     core.Mood
	keywords []string
}

// Checked in order, first hit wins.
var moodTable = []moodKeywords{
	{core.MoodHappy, []string{"happy", "excited", "great", "awesome", "wonderful"}},
	{core.MoodSad, []string{"sad", "down", "depressed", "upset", "unhappy"}},
	{core.MoodAngry, []string{"angry", "frustrated", "mad", "annoyed"}},
	{core.MoodCurious, []string{"wonder", "how", "why", "what", "curious"}},
}

func ClassifyMood(message string) (core.Mood, bool) {
	lower := strings.ToLower(message)
	for _, entry := range moodTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.mood, true
			}
		}
	}
	return "", false
}
