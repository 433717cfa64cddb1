package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
	ProviderEcho       = "echo"
)

// NewProvider creates the model client named by the configuration.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (core.ModelClient, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.GetProvider()).
		Str("model", cfg.GetModel()).
		Msg("starting llm provider")

	switch cfg.GetProvider() {
	case ProviderGemini:
		return NewGemini(cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderOpenRouter:
		return NewOpenRouter(cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderOllama:
		return NewOllama(cfg.GetBaseURL(), cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderCustom:
		if cfg.GetBaseURL() == "" {
			return nil, fmt.Errorf("custom provider requires a base url")
		}
		return NewCustomOpenAI(cfg.GetBaseURL(), cfg.GetAPIKey(), cfg.GetModel()), nil
	case ProviderEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.GetProvider())
	}
}

// NewModelClient builds the provider and wraps it with retries when maxRetries > 0.
func NewModelClient(ctx context.Context, cfg core.ProviderConfig, maxRetries int) (core.ModelClient, error) {
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if maxRetries <= 0 || cfg.GetProvider() == ProviderEcho {
		return provider, nil
	}
	return NewRetryingClient(provider, maxRetries), nil
}
