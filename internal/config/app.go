package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type AppConfig struct {
	RuntimePath string `env:"ALEX_RUNTIME_PATH" envDefault:".alex"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Conversation
	HistoryWindow   int           `env:"HISTORY_WINDOW" envDefault:"5"`
	ModelTimeout    time.Duration `env:"MODEL_TIMEOUT" envDefault:"60s"`
	ModelMaxRetries int           `env:"MODEL_MAX_RETRIES" envDefault:"2"`
	SerializeUsers  bool          `env:"SERIALIZE_USERS" envDefault:"false"`

	// Transport Flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"false"`
	EnableMCP      bool `env:"ENABLE_MCP" envDefault:"false"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"alexbot"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.RuntimePath = ResolveRuntimePath(c.RuntimePath)
	return c, nil
}

func (c AppConfig) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("HISTORY_WINDOW must be positive, got %d", c.HistoryWindow)
	}
	if c.ModelMaxRetries < 0 {
		return fmt.Errorf("MODEL_MAX_RETRIES must not be negative, got %d", c.ModelMaxRetries)
	}
	return nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetStoreDriver() string {
	return c.StoreDriver
}

func (c AppConfig) GetDatabaseURL() string {
	return c.DatabaseURL
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "alexbot.db")
}

func (c AppConfig) GetPersonaPath() string {
	return filepath.Join(c.RuntimePath, "PERSONA.yaml")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "cli_history")
}

func (c AppConfig) GetHistoryWindow() int {
	return c.HistoryWindow
}

func (c AppConfig) GetModelTimeout() time.Duration {
	return c.ModelTimeout
}
