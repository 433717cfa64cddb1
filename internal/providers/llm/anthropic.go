package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

const anthropicVersion = "2023-06-01"

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("https://api.anthropic.com", apiKey, model),
	}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	payload := map[string]any{
		"model":      a.model,
		"max_tokens": 1024,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.postJSON(ctx, "/v1/messages", payload, headers, &result); err != nil {
		return core.Generation{}, err
	}

	var sb strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return core.Generation{Text: sb.String()}, nil
}
