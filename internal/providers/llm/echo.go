package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

const messageMarker = "Current message from user: \""

// Echo answers without calling any model. Handy for local runs and demos.
type Echo struct{}

func NewEcho() *Echo {
	return &Echo{}
}

func (Echo) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	if err := ctx.Err(); err != nil {
		return core.Generation{}, err
	}

	message := prompt
	if _, after, ok := strings.Cut(prompt, messageMarker); ok {
		if i := strings.LastIndex(after, "\"\n\n"); i >= 0 {
			message = after[:i]
		}
	}

	confidence := 1.0
	return core.Generation{Text: "You said: " + message, Confidence: &confidence}, nil
}
