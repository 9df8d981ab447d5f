// Package seed fills empty collections with the bootstrap dataset.
package seed

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

type Seeder struct {
	store   repository.Store
	data    Dataset
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewSeeder(store repository.Store, data Dataset, log *logger.Logger, m *metrics.Metrics) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{store: store, data: data, logger: log, metrics: m}
}

// Result reports how many records were written per collection.
type Result map[model.Collection]int

// SeedIfEmpty writes each part of the dataset into its collection only when
// that collection holds no records. Collections are checked independently,
// so a store with practitioners but no clients gets only the clients.
// Seeded records keep their literal ids.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (Result, error) {
	result := Result{}

	steps := []struct {
		collection model.Collection
		insert     func(ctx context.Context) (int, error)
	}{
		{model.CollectionPractitioners, s.seedPractitioners},
		{model.CollectionClients, s.seedClients},
		{model.CollectionSessionIdentity, s.seedSessionIdentity},
	}

	for _, step := range steps {
		n, err := s.store.Count(ctx, step.collection)
		if err != nil {
			return result, fmt.Errorf("failed to count %s: %w", step.collection, err)
		}
		if n > 0 {
			s.logger.Debug("collection already populated", "collection", step.collection.String(), "count", n)
			continue
		}

		inserted, err := step.insert(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to seed %s: %w", step.collection, err)
		}
		result[step.collection] = inserted
		s.metrics.Seeded(step.collection.String(), inserted)
		s.logger.Info("seeded collection", "collection", step.collection.String(), "count", inserted)
	}

	return result, nil
}

func (s *Seeder) seedPractitioners(ctx context.Context) (int, error) {
	for i := range s.data.Practitioners {
		p := s.data.Practitioners[i]
		if err := s.store.Practitioners().Create(ctx, &p); err != nil {
			return i, err
		}
	}
	return len(s.data.Practitioners), nil
}

func (s *Seeder) seedClients(ctx context.Context) (int, error) {
	for i := range s.data.Clients {
		c := s.data.Clients[i]
		if err := s.store.Clients().Create(ctx, &c); err != nil {
			return i, err
		}
	}
	return len(s.data.Clients), nil
}

func (s *Seeder) seedSessionIdentity(ctx context.Context) (int, error) {
	if s.data.SessionIdentity.IsZero() {
		return 0, nil
	}
	identity := s.data.SessionIdentity
	if err := s.store.SessionIdentity().Put(ctx, &identity); err != nil {
		return 0, err
	}
	return 1, nil
}
