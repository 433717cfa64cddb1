package core

import "context"

type ModelClient interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

type Chatbot interface {
	GenerateResponse(ctx context.Context, userID, message, sessionID string) Reply
}
