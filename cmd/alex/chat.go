package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/alexbot/internal/transport/cli"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/sandevgo/alexbot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Alex in the terminal",
	Long:  `Starts an interactive terminal conversation using the configured model and stores. Type /help for commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)

		term, err := cli.NewReadLine(a.chatbot, a.router, cli.Config{
			HistoryPath: a.cfg.GetHistoryPath(),
			UserID:      chatUser,
			Speaker:     a.persona.Name,
		})
		if err != nil {
			return err
		}

		services := append(a.services, term)
		srv.StartServices(ctx, a.services)

		runErr := term.Start(ctx)
		if runErr != nil {
			log.FromCtx(ctx).Error().Err(runErr).Msg("terminal chat stopped")
		}

		// leaving the chat ends the run like an interrupt would
		stop()
		srv.ShutdownServices(ctx, services, shutdownTimeout)
		return runErr
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", cli.DefaultUserID, "user id to chat as")
	rootCmd.AddCommand(chatCmd)
}
