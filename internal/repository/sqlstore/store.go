// Package sqlstore implements the record store on top of any database/sql
// driver that sqlx can rebind for. Queries are written with '?' placeholders
// and rebound for the connection's driver.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

var _ repository.Store = (*Store)(nil)

// Dialect captures the few driver specific behaviors the store relies on.
type Dialect struct {
	Name string
	// IsDuplicateKey reports whether err is a primary key violation.
	IsDuplicateKey func(err error) bool
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
	metrics *metrics.Metrics
}

// New wraps an open connection. m may be nil.
func New(db *sqlx.DB, dialect Dialect, m *metrics.Metrics) *Store {
	return &Store{db: db, dialect: dialect, metrics: m}
}

func (s *Store) Practitioners() repository.PractitionerRepository {
	return &practitionerRepository{s}
}

func (s *Store) Clients() repository.ClientRepository {
	return &clientRepository{s}
}

func (s *Store) Visits() repository.VisitRepository {
	return &visitRepository{s}
}

func (s *Store) SessionIdentity() repository.SessionIdentityRepository {
	return &sessionRepository{s}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the four collection tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) MaxID(ctx context.Context, collection model.Collection) (id int64, err error) {
	defer s.observe("max_id", time.Now(), &err)

	if !collection.Valid() {
		return 0, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, collection)
	}
	query := fmt.Sprintf(`SELECT COALESCE(MAX(id), 0) FROM %s`, collection)
	if err = s.db.GetContext(ctx, &id, query); err != nil {
		return 0, fmt.Errorf("failed to read max id of %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Count(ctx context.Context, collection model.Collection) (n int64, err error) {
	defer s.observe("count", time.Now(), &err)

	if !collection.Valid() {
		return 0, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, collection)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, collection)
	if err = s.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// insertErr maps a driver duplicate key failure onto repository.ErrDuplicateID.
func (s *Store) insertErr(what string, id int64, err error) error {
	if s.dialect.IsDuplicateKey != nil && s.dialect.IsDuplicateKey(err) {
		return fmt.Errorf("%s %d: %w", what, id, repository.ErrDuplicateID)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

func (s *Store) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveDatabase(operation, start, *err)
}
