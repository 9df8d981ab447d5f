// Package allocator hands out integer ids for new records.
package allocator

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

// Allocator proposes the id for the next record of a collection. An id is a
// proposal: the store's primary key check is what finally makes it unique,
// and callers retry with a fresh id on repository.ErrDuplicateID.
type Allocator interface {
	NextID(ctx context.Context, collection model.Collection) (int64, error)
	Strategy() string
}

// MaxPlusOne returns one more than the largest id currently stored.
type MaxPlusOne struct {
	stats   repository.CollectionStats
	metrics *metrics.Metrics
}

func NewMaxPlusOne(stats repository.CollectionStats, m *metrics.Metrics) *MaxPlusOne {
	return &MaxPlusOne{stats: stats, metrics: m}
}

func (a *MaxPlusOne) NextID(ctx context.Context, collection model.Collection) (int64, error) {
	highest, err := a.stats.MaxID(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", collection, err)
	}
	a.metrics.AllocatedID(collection.String(), a.Strategy())
	return highest + 1, nil
}

func (a *MaxPlusOne) Strategy() string {
	return "max"
}
