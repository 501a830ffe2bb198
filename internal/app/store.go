// Package app assembles the ledger service from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"poolledger/internal/adapter/repo"
	"poolledger/internal/adapter/sqlitestore"
	"poolledger/internal/cache"
	"poolledger/internal/domain"
	"poolledger/internal/infra"
	"poolledger/internal/ledger"
)

// OpenRepository connects the configured store: Postgres when DATABASE_URL is
// set, otherwise the single-file SQLite database at DATABASE_PATH.
func OpenRepository(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.LedgerRepository, error) {
	if !cfg.UsesPostgres() {
		db, err := infra.NewSQLiteDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.DatabasePath).Msg("using sqlite store")
		return sqlitestore.New(db), nil
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	migrator, err := infra.OpenMigrator(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	runner := infra.NewSQLRunner(pool, logger.With().Str("component", "sql").Logger())
	logger.Info().Msg("using postgres store")
	return repo.NewLedgerRepository(runner, migrator, func() {
		_ = migrator.Close()
		pool.Close()
	}), nil
}

// NewService opens the store, wires the optional Redis pool cache and returns
// the ledger service with a cleanup func that releases every handle.
func NewService(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*ledger.Service, func(), error) {
	store, err := OpenRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() { _ = store.Close() }

	var poolCache ledger.PoolCache
	if cfg.RedisURL != "" {
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open redis: %w", err)
		}
		poolCache = cache.NewPoolCache(client, cfg.PoolCacheTTL)
		closeStore := cleanup
		cleanup = func() {
			_ = client.Close()
			closeStore()
		}
		logger.Info().Dur("ttl", cfg.PoolCacheTTL).Msg("pool cache enabled")
	}

	return ledger.NewService(store, poolCache, logger), cleanup, nil
}
