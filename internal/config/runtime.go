package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/alexbot/pkg/log"
)

const defaultRuntimePath = ".alex"

func GetRuntimePath() string {
	return ResolveRuntimePath(os.Getenv("ALEX_RUNTIME_PATH"))
}

// ResolveRuntimePath anchors relative paths at the user's home directory.
func ResolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

func GetEnvPath(runtimePath string) string {
	return filepath.Join(runtimePath, ".env")
}

// LoadEnv loads the runtime .env file into the process environment.
// A missing file is not an error; variables already set win.
func LoadEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := GetEnvPath(runtimePath)

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
