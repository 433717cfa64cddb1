package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/alexbot/pkg/log"
)

type HTTPConfig struct {
	Port           int      `env:"PORT" envDefault:"3000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MCPAddr        string   `env:"MCP_ADDR" envDefault:":3001"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	for i, o := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	return c
}

func (c HTTPConfig) GetAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c HTTPConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

func (c HTTPConfig) GetMCPAddr() string {
	return c.MCPAddr
}
