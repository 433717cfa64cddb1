package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

var _ core.CmdRouter = (*Router)(nil)

type Router struct {
	commands map[string]core.Command
}

// New registers commands plus a built-in /help that lists them.
func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	if _, ok := c.commands["help"]; !ok {
		c.commands["help"] = newHelpCommand(c)
	}
	return c
}

// Execute runs input as a slash command. The bool is false when input is a plain message.
func (c *Router) Execute(ctx context.Context, userID, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// telegram appends the bot name in groups: /profile@alex_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, userID, sessionID, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
