package llm

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini uses the generateContent REST endpoint of the Google Generative Language API.
type Gemini struct {
	baseProvider
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		baseProvider: newBaseProvider("https://generativelanguage.googleapis.com", apiKey, model),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	payload := map[string]any{
		"contents": []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}

	headers := map[string]string{
		"x-goog-api-key": g.apiKey,
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	path := "/v1beta/models/" + url.PathEscape(g.model) + ":generateContent"
	if err := g.postJSON(ctx, path, payload, headers, &result); err != nil {
		return core.Generation{}, err
	}
	if len(result.Candidates) == 0 {
		return core.Generation{}, errors.New("empty candidates")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return core.Generation{Text: sb.String()}, nil
}
