package allocator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

// ErrExhausted is returned when every attempt collided with an existing id.
var ErrExhausted = errors.New("id allocation attempts exhausted")

// Inserter pairs an allocator with the store's duplicate id check: it
// allocates an id, calls insert with it and, when the store reports the id
// as taken, allocates again.
type Inserter struct {
	alloc       Allocator
	maxAttempts int
	metrics     *metrics.Metrics
}

func NewInserter(alloc Allocator, maxAttempts int, m *metrics.Metrics) *Inserter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Inserter{alloc: alloc, maxAttempts: maxAttempts, metrics: m}
}

// Insert returns the id the record was stored under.
func (i *Inserter) Insert(ctx context.Context, collection model.Collection, insert func(id int64) error) (int64, error) {
	for attempt := 0; attempt < i.maxAttempts; attempt++ {
		id, err := i.alloc.NextID(ctx, collection)
		if err != nil {
			return 0, err
		}

		err = insert(id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, repository.ErrDuplicateID) {
			return 0, err
		}
		i.metrics.Collision(collection.String())

		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: %s after %d attempts", ErrExhausted, collection, i.maxAttempts)
}
