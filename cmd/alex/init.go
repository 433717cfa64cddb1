package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sandevgo/alexbot/internal/config"
	"github.com/sandevgo/alexbot/internal/service/memory"
	"github.com/sandevgo/alexbot/internal/service/ui"
	"github.com/sandevgo/alexbot/pkg/env"
	"github.com/sandevgo/alexbot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	initProvider string
	initAPIKey   string
	initStore    string
	initForce    bool
)

// starterEnv is what `alex init` writes. Only non-empty values end up in the file.
type starterEnv struct {
	StoreDriver  string `env:"STORE_DRIVER"`
	Provider     string `env:"LLM_PROVIDER"`
	GeminiKey    string `env:"GEMINI_API_KEY"`
	OpenAIKey    string `env:"OPENAI_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
	OpenRouter   string `env:"OPENROUTER_API_KEY"`
	EnableHTTP   bool   `env:"ENABLE_HTTP"`
	Port         int    `env:"PORT"`
}

func newStarterEnv(provider, apiKey, store string) starterEnv {
	e := starterEnv{
		StoreDriver: store,
		Provider:    provider,
		EnableHTTP:  true,
		Port:        3000,
	}
	switch provider {
	case "gemini":
		e.GeminiKey = apiKey
	case "openai":
		e.OpenAIKey = apiKey
	case "anthropic":
		e.AnthropicKey = apiKey
	case "openrouter":
		e.OpenRouter = apiKey
	}
	return e
}

// writeRuntimeFiles seeds dir with a .env and the default persona.
// Existing files are kept unless force is set.
func writeRuntimeFiles(dir string, starter starterEnv, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envContent, err := env.MarshalEnv(&starter)
	if err != nil {
		return nil, fmt.Errorf("render .env: %w", err)
	}
	persona, err := memory.MarshalPersona(memory.DefaultPersona())
	if err != nil {
		return nil, fmt.Errorf("render persona: %w", err)
	}

	files := []struct {
		path string
		data []byte
		perm os.FileMode
	}{
		{config.GetEnvPath(dir), []byte(envContent), 0600},
		{filepath.Join(dir, "PERSONA.yaml"), persona, 0644},
	}

	var written []string
	for _, f := range files {
		if !force {
			if _, err := os.Stat(f.path); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return written, err
			}
		}
		if err := os.WriteFile(f.path, f.data, f.perm); err != nil {
			return written, fmt.Errorf("write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the runtime directory with a starter .env and persona",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		written, err := writeRuntimeFiles(runtimePath, newStarterEnv(initProvider, initAPIKey, initStore), initForce)
		if err != nil {
			return err
		}

		for _, path := range written {
			logger.Info().Str("path", path).Msg("created")
		}
		if len(written) == 0 {
			logger.Info().Str("path", runtimePath).Msg("runtime directory already initialized, use --force to overwrite")
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.TitleStyle.Render("Ready! Run 'alex start' or 'alex chat'."))
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initProvider, "provider", "gemini", "llm provider: gemini, openai, anthropic, openrouter, ollama, custom, echo")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "api key for the selected provider")
	initCmd.Flags().StringVar(&initStore, "store", config.StoreSQLite, "store driver: memory, sqlite or postgres")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
