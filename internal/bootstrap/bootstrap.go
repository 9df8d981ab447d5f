// Package bootstrap builds the store and id allocator a command needs from
// its configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms-api/config"
	"github.com/jwalitptl/hms-api/internal/allocator"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/internal/repository/memory"
	"github.com/jwalitptl/hms-api/internal/repository/postgres"
	"github.com/jwalitptl/hms-api/internal/repository/sqlite"
	"github.com/jwalitptl/hms-api/internal/repository/sqlstore"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

// OpenStore connects to the configured backend and ensures its schema. A
// backend that cannot be opened is reported as apperrors.ErrUnavailable.
func OpenStore(ctx context.Context, cfg config.StoreConfig, m *metrics.Metrics) (repository.Store, error) {
	var (
		store *sqlstore.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err = postgres.NewStore(ctx, cfg, m)
	case config.DriverSQLite:
		store, err = sqlite.NewStore(ctx, cfg, m)
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Errorf("%s store: %w", cfg.Driver, err))
	}
	return store, nil
}

// NewInserter builds the configured id allocator wrapped in the insert
// retry loop. The returned close function releases any connection the
// allocator holds.
func NewInserter(ctx context.Context, cfg *config.Config, store repository.Store, m *metrics.Metrics) (*allocator.Inserter, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Allocator.Strategy {
	case config.AllocatorMax:
		return allocator.NewInserter(allocator.NewMaxPlusOne(store, m), cfg.Allocator.MaxAttempts, m), noop, nil
	case config.AllocatorRedis:
		client, err := allocator.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, err
		}
		alloc := allocator.NewRedisCounter(client, store, m)
		return allocator.NewInserter(alloc, cfg.Allocator.MaxAttempts, m), client.Close, nil
	}
	return nil, noop, fmt.Errorf("unsupported id allocator %q", cfg.Allocator.Strategy)
}
