package log

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// GooseLogger routes goose migration output through the context logger.
// Progress lines go to debug so `alex start` stays quiet on an up-to-date schema.
type GooseLogger struct {
	logger zerolog.Logger
}

func (g *GooseLogger) Fatalf(format string, v ...any) {
	g.logger.Fatal().Msgf(strings.TrimSpace(format), v...)
}

func (g *GooseLogger) Printf(format string, v ...any) {
	g.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func NewGooseLoggerFromCtx(ctx context.Context) *GooseLogger {
	return &GooseLogger{
		logger: FromCtx(ctx).With().Str("component", "migrations").Logger(),
	}
}
