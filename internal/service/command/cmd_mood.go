package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/alexbot/internal/core"
)

type MoodCommand struct {
	sessions core.SessionStore
}

func NewMoodCommand(sessions core.SessionStore) *MoodCommand {
	return &MoodCommand{
		sessions: sessions,
	}
}

func (c *MoodCommand) Name() string {
	return "mood"
}

func (c *MoodCommand) Description() string {
	return "Show the mood detected in this conversation"
}

func (c *MoodCommand) Execute(ctx context.Context, userID, sessionID string, args []string) (string, error) {
	session, err := c.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	return reply(
		heading("Conversation Mood"),
		field("Mood", session.MoodLabel()),
	), nil
}
