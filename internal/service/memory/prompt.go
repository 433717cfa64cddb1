package memory

import (
	"fmt"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

// BuildPrompt assembles the full model prompt for one turn. Sections without
// content are left out entirely.
func BuildPrompt(
	message string,
	profile *core.UserProfile,
	history []core.Turn,
	session *core.SessionContext,
	persona Persona,
) string {
	sections := []string{
		personaSection(persona),
		profileSection(profile),
		historySection(history),
		sessionSection(session),
		messageSection(message, persona),
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func personaSection(p Persona) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s. Here's who you are:\n\n", p.Name)
	fmt.Fprintf(&sb, "Core traits: %s\n", strings.Join(p.CoreTraits, ", "))
	fmt.Fprintf(&sb, "Speaking style: %s\n", strings.Join(p.SpeakingStyle, ", "))
	fmt.Fprintf(&sb, "Background: %s\n\n", p.Background)
	fmt.Fprintf(&sb, "Important: %s", p.NeverReveal)
	return sb.String()
}

func profileSection(profile *core.UserProfile) string {
	if profile == nil || len(profile.Facts) == 0 {
		return "This seems to be a new person you're meeting."
	}

	var sb strings.Builder
	sb.WriteString("What you know about this person:\n")
	for _, f := range profile.Facts {
		sb.WriteString("- ")
		sb.WriteString(f.Content)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nConversation themes you've discussed: ")
	sb.WriteString(strings.Join(profile.Themes, ", "))
	return sb.String()
}

func historySection(history []core.Turn) string {
	if len(history) == 0 {
		return ""
	}

	exchanges := make([]string, 0, len(history))
	for _, t := range history {
		exchanges = append(exchanges, fmt.Sprintf("User: %s\nYou: %s", t.Message, t.Response))
	}
	return "Recent conversation context:\n" + strings.Join(exchanges, "\n\n")
}

func sessionSection(session *core.SessionContext) string {
	if session == nil {
		return ""
	}
	return "Current conversation mood/context: " + session.MoodLabel()
}

func messageSection(message string, p Persona) string {
	return fmt.Sprintf(
		"Current message from user: \"%s\"\n\nRespond as %s. Be natural, reference relevant past details if appropriate, and match their energy. Keep responses conversational (1-3 sentences typically).",
		message, p.Name,
	)
}
