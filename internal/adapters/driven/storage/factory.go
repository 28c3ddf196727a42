// Package storage builds the configured storage backend.
package storage

import (
	"context"
	"fmt"

	"github.com/documentor-dev/documentor/internal/adapters/driven/storage/memory"
	"github.com/documentor-dev/documentor/internal/adapters/driven/storage/postgres"
	"github.com/documentor-dev/documentor/internal/adapters/driven/storage/sqlite"
	"github.com/documentor-dev/documentor/internal/config"
	"github.com/documentor-dev/documentor/internal/core/ports/driven"
)

// New builds the unit of work for the configured backend. The returned
// close function releases backend resources; it is a no-op for the
// in-memory store. The dimensions argument sizes the Postgres vector
// column and must match the embedding provider.
func New(ctx context.Context, cfg config.StorageConfig, dimensions int) (driven.UnitOfWork, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), func() {}, nil

	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case config.BackendPostgres:
		store, err := postgres.New(ctx, postgres.Config{
			DSN:        cfg.PostgresDSN,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
