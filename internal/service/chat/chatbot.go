package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/observability"
	"github.com/sandevgo/alexbot/internal/service/memory"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/sandevgo/alexbot/pkg/tokens"
	"golang.org/x/sync/errgroup"
)

const (
	FallbackText         = "I'm having trouble thinking right now. Could you try asking me that again?"
	FallbackConfidence   = 0.3
	DefaultConfidence    = 0.8
	DefaultHistoryWindow = 5
)

type Options struct {
	// HistoryWindow is how many recent turns go into the prompt.
	HistoryWindow int
	// ModelTimeout bounds a single model call. Zero means no extra bound.
	ModelTimeout time.Duration
	// SerializeUsers runs turns of the same user one at a time.
	SerializeUsers bool
}

var _ core.Chatbot = (*Chatbot)(nil)

type Chatbot struct {
	stores  core.Stores
	model   core.ModelClient
	persona memory.Persona
	metrics *observability.Metrics
	opts    Options
	locker  *userLocker
	now     func() time.Time
}

func NewChatbot(
	stores core.Stores,
	model core.ModelClient,
	persona memory.Persona,
	metrics *observability.Metrics,
	opts Options,
) *Chatbot {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}

	c := &Chatbot{
		stores:  stores,
		model:   model,
		persona: persona,
		metrics: metrics,
		opts:    opts,
		now:     time.Now,
	}
	if opts.SerializeUsers {
		c.locker = newUserLocker()
	}
	return c
}

// GenerateResponse runs one conversational turn. It never fails: any error ends the
// turn in FAILED and yields the fallback reply. Writes made before the failure stay.
func (c *Chatbot) GenerateResponse(ctx context.Context, userID, message, sessionID string) core.Reply {
	logger := log.FromCtx(ctx).With().
		Str("component", "chatbot").
		Str("user_id", userID).
		Str("session_id", sessionID).
		Logger()

	if c.locker != nil {
		unlock := c.locker.Lock(userID)
		defer unlock()
	}

	reply, state, err := c.runTurn(ctx, &logger, userID, message, sessionID)
	if err != nil {
		logger.Error().Err(err).Str("state", state.String()).Msg("turn failed")
		c.metrics.ObserveTurn(failureOutcome(err))
		return Fallback()
	}

	c.metrics.ObserveTurn("ok")
	return reply
}

func Fallback() core.Reply {
	return core.Reply{Text: FallbackText, Confidence: FallbackConfidence}
}

type turnContext struct {
	profile *core.UserProfile
	history []core.Turn
	session *core.SessionContext
}

func (c *Chatbot) runTurn(
	ctx context.Context,
	logger *zerolog.Logger,
	userID, message, sessionID string,
) (reply core.Reply, state TurnState, err error) {
	state = StateStart
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic in turn: %v", core.ErrStoreFailure, r)
		}
	}()

	advance := func(next TurnState) {
		state = next
		logger.Debug().Str("state", next.String()).Msg("turn advanced")
	}

	tc, err := c.loadContext(ctx, userID, sessionID)
	if err != nil {
		return reply, state, err
	}
	advance(StateContextLoaded)

	if facts := memory.ExtractFacts(message, c.now()); len(facts) > 0 {
		profile, err := c.stores.Profiles.RecordFacts(ctx, userID, facts)
		if err != nil {
			return reply, state, storeErr("record facts", err)
		}
		tc.profile = profile
		for _, f := range facts {
			c.metrics.ObserveFact(string(f.Type))
		}
		logger.Debug().Int("count", len(facts)).Msg("facts extracted")
	}
	advance(StateFactsExtracted)

	prompt := memory.BuildPrompt(message, tc.profile, tc.history, tc.session, c.persona)
	c.metrics.ObservePromptTokens(tokens.Count(prompt))
	advance(StatePromptBuilt)

	gen, err := c.generate(ctx, prompt)
	if err != nil {
		return reply, state, err
	}
	advance(StateModelCalled)

	if err := c.persist(ctx, userID, sessionID, message, gen.Text); err != nil {
		return reply, state, err
	}
	advance(StatePersisted)

	confidence := DefaultConfidence
	if gen.Confidence != nil {
		confidence = *gen.Confidence
	}
	advance(StateDone)

	return core.Reply{Text: gen.Text, Confidence: confidence}, state, nil
}

// loadContext reads the three independent inputs of a turn concurrently.
func (c *Chatbot) loadContext(ctx context.Context, userID, sessionID string) (turnContext, error) {
	var tc turnContext
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := c.stores.Profiles.GetOrCreateProfile(gctx, userID)
		if err != nil {
			return storeErr("load profile", err)
		}
		tc.profile = p
		return nil
	})
	g.Go(func() error {
		h, err := c.stores.History.Recent(gctx, userID, c.opts.HistoryWindow)
		if err != nil {
			return storeErr("load history", err)
		}
		tc.history = h
		return nil
	})
	g.Go(func() error {
		s, err := c.stores.Sessions.GetSession(gctx, sessionID)
		if err != nil {
			return storeErr("load session", err)
		}
		tc.session = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return turnContext{}, err
	}
	return tc, nil
}

// generate calls the model and gives up as soon as ctx is done, even if the
// client ignores cancellation.
func (c *Chatbot) generate(ctx context.Context, prompt string) (core.Generation, error) {
	if c.opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ModelTimeout)
		defer cancel()
	}

	type result struct {
		gen core.Generation
		err error
	}
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("model client panic: %v", r)}
			}
		}()
		gen, err := c.model.Generate(ctx, prompt)
		done <- result{gen: gen, err: err}
	}()

	select {
	case <-ctx.Done():
		return core.Generation{}, fmt.Errorf("%w: %w", core.ErrModelFailure, ctx.Err())
	case res := <-done:
		c.metrics.ObserveModelLatency(time.Since(start))
		if res.err != nil {
			return core.Generation{}, fmt.Errorf("%w: %w", core.ErrModelFailure, res.err)
		}
		if err := validateGeneration(res.gen); err != nil {
			return core.Generation{}, err
		}
		return res.gen, nil
	}
}

func validateGeneration(gen core.Generation) error {
	if strings.TrimSpace(gen.Text) == "" {
		return fmt.Errorf("%w: empty response text", core.ErrModelFailure)
	}
	if gen.Confidence != nil {
		v := *gen.Confidence
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: confidence %v out of range", core.ErrModelFailure, v)
		}
	}
	return nil
}

// persist writes the turn, bumps the conversation counter and records the session mood.
func (c *Chatbot) persist(ctx context.Context, userID, sessionID, message, response string) error {
	turn := core.Turn{
		SessionID: sessionID,
		Message:   message,
		Response:  response,
		Timestamp: c.now(),
	}
	if err := c.stores.History.AppendTurn(ctx, userID, turn); err != nil {
		return storeErr("append turn", err)
	}
	if err := c.stores.Profiles.IncrementConversationCount(ctx, userID); err != nil {
		return storeErr("increment conversation count", err)
	}

	if mood, ok := memory.ClassifyMood(message); ok {
		if err := c.stores.Sessions.SetMood(ctx, sessionID, mood); err != nil {
			return storeErr("set session mood", err)
		}
	}
	return nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, core.ErrStoreFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", core.ErrStoreFailure, op, err)
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, core.ErrModelFailure):
		return "model_failure"
	case errors.Is(err, core.ErrStoreFailure):
		return "store_failure"
	default:
		return "failed"
	}
}
