package command

import (
	"github.com/sandevgo/alexbot/internal/core"
)

func NewCommands(stores core.Stores) []core.Command {
	return []core.Command{
		NewProfileCommand(stores.Profiles),
		NewMoodCommand(stores.Sessions),
	}
}
