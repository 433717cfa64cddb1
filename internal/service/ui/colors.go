package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle uses ANSI 6 (cyan), readable on dark and light terminals.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (gray) keeps descriptions in the background.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// SpeakerStyle prefixes Alex's replies in the terminal chat.
	SpeakerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	// SystemStyle renders command output and notices.
	SystemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Reply formats a chat reply for the terminal.
func Reply(speaker, text string) string {
	return SpeakerStyle.Render(speaker+":") + " " + text
}

// System formats non-chat output such as command results.
func System(text string) string {
	return SystemStyle.Render(text)
}
