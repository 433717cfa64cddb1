package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/sandevgo/alexbot/pkg/srv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the AlexBot services",
	Long:  `Initializes and starts all configured transports (HTTP, Telegram, MCP, terminal) until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting alexbot")

		services := NewServices(ctx)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, shutdownTimeout)
		logger.Info().Msg("alexbot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
