// Package storage selects and opens the configured backend.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/config"
	"github.com/foylaou/ExpoPass-sub000/internal/storage/memory"
	"github.com/foylaou/ExpoPass-sub000/internal/storage/postgres"
	"github.com/foylaou/ExpoPass-sub000/internal/storage/sqlite"
	"github.com/foylaou/ExpoPass-sub000/migrations"
)

const startupTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Driver    string
	Registry  app.RegistryRepository
	Lookup    app.EntityLookup
	Tokens    app.TokenRepository
	Scans     app.ScanRepository
	Analytics app.AnalyticsRepository
	// Pinger is nil for the in-memory driver.
	Pinger Pinger
	// Pool is set only for postgres.
	Pool *pgxpool.Pool

	close func()
}

func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the backend named by cfg.StorageDriver. Postgres
// migrations are applied when migrate is true.
func Open(ctx context.Context, cfg config.Config, migrate bool, logger logrus.FieldLogger) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL, migrate, logger)
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("using sqlite storage")
		return &Backend{
			Driver:    config.DriverSQLite,
			Registry:  store,
			Lookup:    store,
			Tokens:    store,
			Scans:     store,
			Analytics: store,
			Pinger:    store,
			close:     func() { _ = store.Close() },
		}, nil
	case config.DriverMemory:
		store := memory.New()
		logger.Warn("using in-memory storage, data is lost on exit")
		return &Backend{
			Driver:    config.DriverMemory,
			Registry:  store,
			Lookup:    store,
			Tokens:    store,
			Scans:     store,
			Analytics: store,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, dsn string, migrate bool, logger logrus.FieldLogger) (*Backend, error) {
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(startupCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if migrate {
		applied, err := migrations.Apply(startupCtx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		for _, name := range applied {
			logger.WithField("migration", name).Info("applied migration")
		}
	}

	registry := postgres.NewRegistryRepository(pool)
	return &Backend{
		Driver:    config.DriverPostgres,
		Registry:  registry,
		Lookup:    registry,
		Tokens:    registry,
		Scans:     postgres.NewScanRepository(pool),
		Analytics: postgres.NewAnalyticsRepository(pool),
		Pinger:    pool,
		Pool:      pool,
		close:     pool.Close,
	}, nil
}
