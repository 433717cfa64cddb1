package llm

import (
	"context"
	"errors"

	"github.com/sandevgo/alexbot/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends the prompt as a single user message.
func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := o.postJSON(ctx, "/v1/chat/completions", payload, headers, &result); err != nil {
		return core.Generation{}, err
	}
	if len(result.Choices) == 0 {
		return core.Generation{}, errors.New("empty choices")
	}
	return core.Generation{Text: result.Choices[0].Message.Content}, nil
}
