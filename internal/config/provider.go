package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/alexbot/pkg/log"
)

var defaultModels = map[string]string{
	"gemini":     "gemini-1.5-flash",
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-3-5-haiku-latest",
	"openrouter": "google/gemma-3-27b-it:free",
	"ollama":     "llama3.2",
}

type ProviderConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"gemini"`
	Model    string `env:"LLM_MODEL"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL"`
	OllamaAPIKey  string `env:"OLLAMA_API_KEY"`

	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func (c ProviderConfig) GetProvider() string {
	return c.Provider
}

// GetModel returns LLM_MODEL or a sensible default for the selected provider.
func (c ProviderConfig) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

func (c ProviderConfig) GetAPIKey() string {
	switch c.Provider {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "openrouter":
		return c.OpenRouterAPIKey
	case "ollama":
		return c.OllamaAPIKey
	case "custom":
		return c.CustomOpenAIAPIKey
	default:
		return ""
	}
}

func (c ProviderConfig) GetBaseURL() string {
	switch c.Provider {
	case "ollama":
		return c.OllamaBaseURL
	case "custom":
		return c.CustomOpenAIBaseURL
	default:
		return ""
	}
}
