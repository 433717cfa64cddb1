package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/alexbot/internal/core"
	"github.com/sandevgo/alexbot/internal/storage/inmem"
	"github.com/sandevgo/alexbot/internal/storage/postgres"
	"github.com/sandevgo/alexbot/internal/storage/sqlite"
	"github.com/sandevgo/alexbot/pkg/log"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config interface {
	GetStoreDriver() string
	GetDatabasePath() string
	GetDatabaseURL() string
}

// NewStores builds the profile, history and session stores for the configured driver.
// The returned cleanup func releases the underlying connection, if any.
func NewStores(ctx context.Context, cfg Config) (core.Stores, func() error, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetStoreDriver()))
	log.FromCtx(ctx).Info().Str("driver", driver).Msg("initializing stores")

	switch driver {
	case "", DriverMemory:
		return inmem.NewStores(), func() error { return nil }, nil
	case DriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return core.Stores{}, nil, err
		}
		return sqlite.NewStores(db), db.Close, nil
	case DriverPostgres:
		if strings.TrimSpace(cfg.GetDatabaseURL()) == "" {
			return core.Stores{}, nil, fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		pool, err := postgres.NewPool(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return core.Stores{}, nil, err
		}
		return postgres.NewStores(pool), func() error { pool.Close(); return nil }, nil
	default:
		return core.Stores{}, nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
