package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/alexbot/internal/config"
	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/observability"
	"github.com/sandevgo/alexbot/internal/providers/llm"
	"github.com/sandevgo/alexbot/internal/service/chat"
	"github.com/sandevgo/alexbot/internal/service/command"
	"github.com/sandevgo/alexbot/internal/service/memory"
	"github.com/sandevgo/alexbot/internal/storage"
	"github.com/sandevgo/alexbot/internal/transport/cli"
	"github.com/sandevgo/alexbot/internal/transport/httpapi"
	"github.com/sandevgo/alexbot/internal/transport/mcpserver"
	"github.com/sandevgo/alexbot/internal/transport/telegram"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/sandevgo/alexbot/pkg/srv"
	"github.com/sandevgo/alexbot/pkg/tokens"
)

// app is the transport independent core: stores, model, orchestrator and commands.
type app struct {
	cfg      *config.AppConfig
	persona  memory.Persona
	stores   core.Stores
	chatbot  *chat.Chatbot
	router   *command.Router
	registry *prometheus.Registry
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := config.LoadEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	providerCfg := config.NewProviderConfig(ctx)

	a := &app{cfg: appCfg}

	// 2. Storage
	stores, closeStores, err := storage.NewStores(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.stores = stores
	a.services = append(a.services, srv.NewCleanup(closeStores))

	// 3. Model client
	model, err := llm.NewModelClient(ctx, providerCfg, appCfg.ModelMaxRetries)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Persona
	a.persona, err = memory.LoadPersona(appCfg.GetPersonaPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load persona")
	}

	// 5. Metrics
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(appCfg.MetricsNamespace, a.registry)

	// 6. Orchestrator and chat commands
	a.chatbot = chat.NewChatbot(a.stores, model, a.persona, metrics, chat.Options{
		HistoryWindow:  appCfg.GetHistoryWindow(),
		ModelTimeout:   appCfg.GetModelTimeout(),
		SerializeUsers: appCfg.SerializeUsers,
	})
	a.router = command.New(command.NewCommands(a.stores))

	// Token counting falls back to an estimate until the encoding is loaded.
	a.services = append(a.services, srv.NewTask(func(ctx context.Context) error {
		if err := tokens.Load(); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("token encoding unavailable, using estimates")
		}
		return nil
	}))

	return a
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	a := newApp(ctx)

	transports, err := initTransports(ctx, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Warn().Msg("no transports enabled, set ENABLE_HTTP, ENABLE_TELEGRAM, ENABLE_MCP or ENABLE_CLI")
	}

	return append(a.services, transports...)
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	var httpCfg *config.HTTPConfig
	if a.cfg.EnableHTTP || a.cfg.EnableMCP {
		httpCfg = config.NewHTTPConfig(ctx)
	}

	// REST and websocket API
	if a.cfg.EnableHTTP {
		services = append(services, httpapi.New(httpCfg, a.chatbot, a.stores.Profiles, a.registry))
	}

	// MCP tools for other agents
	if a.cfg.EnableMCP {
		services = append(services, mcpserver.New(httpCfg.GetMCPAddr(), a.chatbot, a.stores.Profiles))
	}

	// Telegram Bot
	if a.cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.chatbot, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	// Terminal chat inside the server process
	if a.cfg.EnableCLI {
		term, err := cli.NewReadLine(a.chatbot, a.router, cli.Config{
			HistoryPath: a.cfg.GetHistoryPath(),
			Speaker:     a.persona.Name,
		})
		if err != nil {
			return nil, err
		}
		services = append(services, term)
	}

	return services, nil
}
