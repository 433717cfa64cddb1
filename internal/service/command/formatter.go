package command

import (
	"fmt"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

// Command replies are markdown. Telegram renders them as HTML, the CLI strips them to text.

func heading(title string) string {
	return fmt.Sprintf("⚙️️ **%s**\n\n", title)
}

func field(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func bullets(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "› %s\n", item)
	}
	return sb.String()
}

func hint(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func block(emoji, title, content string) string {
	return fmt.Sprintf("%s **%s**\n%s\n", emoji, title, content)
}

func factLines(facts []core.Fact) []string {
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, fmt.Sprintf("**%s**: %s", f.Type, f.Content))
	}
	return lines
}

func reply(sections ...string) string {
	return strings.Join(sections, "\n")
}
