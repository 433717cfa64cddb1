package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/sandevgo/alexbot/pkg/retry"
)

// RetryingClient retries transient provider failures: network errors, 429 and 5xx.
type RetryingClient struct {
	next    core.ModelClient
	retrier *retry.Retrier
}

func NewRetryingClient(next core.ModelClient, maxRetries int) *RetryingClient {
	cfg := retry.NewDefaultConfig()
	cfg.MaxRetries = maxRetries
	cfg.MaxDelay = 5 * time.Second
	return newRetryingClient(next, cfg)
}

func newRetryingClient(next core.ModelClient, cfg *retry.Config) *RetryingClient {
	return &RetryingClient{
		next:    next,
		retrier: retry.NewRetrier(cfg),
	}
}

func (r *RetryingClient) Generate(ctx context.Context, prompt string) (core.Generation, error) {
	var gen core.Generation
	attempt := 0

	err := r.retrier.Do(ctx, func() error {
		attempt++
		var err error
		gen, err = r.next.Generate(ctx, prompt)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return retry.Permanent(err)
		}
		log.FromCtx(ctx).Warn().Err(err).Int("attempt", attempt).Msg("model call failed, retrying")
		return err
	})
	return gen, err
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
