package llm

import "github.com/sandevgo/alexbot/internal/core"

const (
	openAIBaseURL         = "https://api.openai.com"
	openRouterBaseURL     = "https://openrouter.ai/api"
	DefaultOllamaBaseURL  = "http://localhost:11434"
	bearerAuthHeader      = "Authorization"
	bearerAuthTokenPrefix = "Bearer "
)

// bearerEndpoint describes a chat completions endpoint that authenticates with a bearer token.
func bearerEndpoint(baseURL, apiKey, model string) OpenAICompatibleConfig {
	return OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: bearerAuthHeader,
		AuthPrefix: bearerAuthTokenPrefix,
	}
}

func NewOpenAI(apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(bearerEndpoint(openAIBaseURL, apiKey, model))
}

// NewOpenRouter tags requests with the app attribution headers openrouter asks for.
func NewOpenRouter(apiKey, model string) *OpenAICompatible {
	cfg := bearerEndpoint(openRouterBaseURL, apiKey, model)
	cfg.ExtraHeaders = map[string]string{
		"HTTP-Referer": core.AlexRepositoryURL,
		"X-Title":      core.AlexName,
	}
	return NewOpenAICompatible(cfg)
}

// NewOllama talks to the OpenAI-compatible endpoint of a local ollama server.
func NewOllama(baseURL, apiKey, model string) *OpenAICompatible {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return NewOpenAICompatible(bearerEndpoint(baseURL, apiKey, model))
}

// NewCustomOpenAI points at any self-hosted server speaking the chat completions API.
func NewCustomOpenAI(baseURL, apiKey, model string) *OpenAICompatible {
	return NewOpenAICompatible(bearerEndpoint(baseURL, apiKey, model))
}
