package main

import (
	"context"
	"os"

	"github.com/sandevgo/alexbot/internal/config"
	"github.com/sandevgo/alexbot/internal/service/ui"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "alex",
	Short: "AlexBot, a companion that remembers you",
	Long:  `AlexBot is a conversational companion with long-term memory of the people it talks to.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", os.Getenv("ALEX_LOG_FORMAT"), "log output format: console or json")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithOptions(ctx, log.Options{
		Debug:  debug || config.IsDebug(),
		Format: log.ParseFormat(logFormat),
	})
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
