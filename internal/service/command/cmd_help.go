package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/alexbot/internal/core"
)

type HelpCommand struct {
	router core.CmdRouter
}

func newHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{
		router: router,
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, userID, sessionID string, args []string) (string, error) {
	cmds := c.router.ListCommands()
	items := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}

	return reply(
		heading("Commands"),
		bullets(items),
	), nil
}
