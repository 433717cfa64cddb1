package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
)

type ProfileCommand struct {
	profiles core.ProfileStore
}

func NewProfileCommand(profiles core.ProfileStore) *ProfileCommand {
	return &ProfileCommand{
		profiles: profiles,
	}
}

func (c *ProfileCommand) Name() string {
	return "profile"
}

func (c *ProfileCommand) Description() string {
	return "Show what Alex remembers about you"
}

func (c *ProfileCommand) Execute(ctx context.Context, userID, sessionID string, args []string) (string, error) {
	profile, err := c.profiles.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load profile: %w", err)
	}

	sections := []string{
		heading("Your Profile"),
		field("Conversations", strconv.Itoa(profile.ConversationCount)),
		field("First seen", profile.FirstSeen.Format(time.DateTime)),
	}

	if len(profile.Facts) == 0 {
		sections = append(sections, hint("Tell me about yourself, e.g. \"My name is Sarah and I love jazz\""))
		return reply(sections...), nil
	}

	sections = append(sections, block("🧠", "Facts", bullets(factLines(profile.Facts))))

	if len(profile.Themes) > 0 {
		sections = append(sections, field("Themes", strings.Join(profile.Themes, ", ")))
	}
	return reply(sections...), nil
}
