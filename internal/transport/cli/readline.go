package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/service/ui"
	"github.com/sandevgo/alexbot/pkg/conv"
	"github.com/sandevgo/alexbot/pkg/log"
)

// DefaultUserID is the profile used by the local terminal chat.
const DefaultUserID = "cli-local"

type Config struct {
	HistoryPath string
	UserID      string
	Speaker     string
}

type ReadLine struct {
	chatbot   core.Chatbot
	router    core.CmdRouter
	rl        *readline.Instance
	userID    string
	sessionID string
	speaker   string
}

func NewReadLine(chatbot core.Chatbot, router core.CmdRouter, cfg Config) (*ReadLine, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.HistoryPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	if cfg.UserID == "" {
		cfg.UserID = DefaultUserID
	}
	if cfg.Speaker == "" {
		cfg.Speaker = "Alex"
	}

	return &ReadLine{
		chatbot: chatbot,
		router:  router,
		rl:      rl,
		userID:  cfg.UserID,
		// each terminal run is a new conversation session
		sessionID: "cli-" + uuid.NewString(),
		speaker:   cfg.Speaker,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("session_id", r.sessionID).Msg("terminal chat started. Type 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), r.handle(ctx, line))
	}
}

func (r *ReadLine) handle(ctx context.Context, line string) string {
	if r.router != nil {
		if out, ok := r.router.Execute(ctx, r.userID, r.sessionID, line); ok {
			return ui.System(conv.MarkdownToText([]byte(out)))
		}
	}

	reply := r.chatbot.GenerateResponse(ctx, r.userID, line, r.sessionID)
	return ui.Reply(r.speaker, reply.Text)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
