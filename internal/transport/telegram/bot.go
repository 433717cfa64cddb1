package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	sender  *sender
	chatbot core.Chatbot
	router  core.CmdRouter
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	chatbot core.Chatbot,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		sender:  newSender(b),
		chatbot: chatbot,
		router:  router,
		ownerID: cfg.GetTelegramOwnerID(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: only the owner, when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !bot.allowed(c.Sender()) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) allowed(u *tele.User) bool {
	if b.ownerID == 0 {
		return true
	}
	return u != nil && u.ID == b.ownerID
}

func (b *Bot) handleMessage(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}

	ctx := c.Get(baseContextKey).(context.Context)
	userID, sessionID := identify(c.Sender().ID, c.Chat().ID)

	logger := log.FromCtx(ctx).With().
		Str("transport", "telegram").
		Str("user_id", userID).
		Logger()
	ctx = logger.WithContext(ctx)

	_ = c.Notify(tele.Typing)

	answer := respond(ctx, b.chatbot, b.router, userID, sessionID, c.Text())
	if err := b.sender.sendMarkdown(ctx, c.Chat(), answer, false); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
	}
	return nil
}

// identify maps a telegram sender and chat onto user and session ids.
// Every chat is its own conversation session.
func identify(senderID, chatID int64) (userID, sessionID string) {
	return fmt.Sprintf("telegram-%d", senderID), fmt.Sprintf("telegram-%d", chatID)
}

func respond(ctx context.Context, chatbot core.Chatbot, router core.CmdRouter, userID, sessionID, text string) string {
	if router != nil {
		if out, ok := router.Execute(ctx, userID, sessionID, text); ok {
			return out
		}
	}
	return chatbot.GenerateResponse(ctx, userID, text, sessionID).Text
}
