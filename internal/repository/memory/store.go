// Package memory provides an in-memory implementation of the record store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// table holds one collection. Values are stored by value so callers never
// share memory with the store.
type table[T any] struct {
	rows map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) sorted() []int64 {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *table[T]) maxID() int64 {
	var highest int64
	for id := range t.rows {
		if id > highest {
			highest = id
		}
	}
	return highest
}

// Store keeps every collection in process memory behind a single lock.
type Store struct {
	mu            sync.RWMutex
	practitioners *table[model.Practitioner]
	clients       *table[model.Client]
	visits        *table[model.Visit]
	identity      *model.SessionIdentity
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		practitioners: newTable[model.Practitioner](),
		clients:       newTable[model.Client](),
		visits:        newTable[model.Visit](),
	}
}

func (s *Store) Practitioners() repository.PractitionerRepository {
	return practitionerRepository{s}
}

func (s *Store) Clients() repository.ClientRepository {
	return clientRepository{s}
}

func (s *Store) Visits() repository.VisitRepository {
	return visitRepository{s}
}

func (s *Store) SessionIdentity() repository.SessionIdentityRepository {
	return sessionRepository{s}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) MaxID(_ context.Context, collection model.Collection) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch collection {
	case model.CollectionPractitioners:
		return s.practitioners.maxID(), nil
	case model.CollectionClients:
		return s.clients.maxID(), nil
	case model.CollectionVisits:
		return s.visits.maxID(), nil
	case model.CollectionSessionIdentity:
		if s.identity == nil {
			return 0, nil
		}
		return s.identity.ID, nil
	}
	return 0, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, collection)
}

func (s *Store) Count(_ context.Context, collection model.Collection) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch collection {
	case model.CollectionPractitioners:
		return int64(len(s.practitioners.rows)), nil
	case model.CollectionClients:
		return int64(len(s.clients.rows)), nil
	case model.CollectionVisits:
		return int64(len(s.visits.rows)), nil
	case model.CollectionSessionIdentity:
		if s.identity == nil {
			return 0, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, collection)
}

type practitionerRepository struct{ s *Store }

func (r practitionerRepository) Create(_ context.Context, p *model.Practitioner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.practitioners.rows[p.ID]; taken {
		return fmt.Errorf("practitioner %d: %w", p.ID, repository.ErrDuplicateID)
	}
	r.s.practitioners.rows[p.ID] = *p
	return nil
}

func (r practitionerRepository) List(context.Context) ([]*model.Practitioner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Practitioner, 0, len(r.s.practitioners.rows))
	for _, id := range r.s.practitioners.sorted() {
		p := r.s.practitioners.rows[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r practitionerRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.practitioners.rows[id]
	delete(r.s.practitioners.rows, id)
	return ok, nil
}

type clientRepository struct{ s *Store }

func (r clientRepository) Create(_ context.Context, c *model.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.clients.rows[c.ID]; taken {
		return fmt.Errorf("client %d: %w", c.ID, repository.ErrDuplicateID)
	}
	r.s.clients.rows[c.ID] = *c
	return nil
}

func (r clientRepository) Get(_ context.Context, id int64) (*model.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clients.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r clientRepository) List(context.Context) ([]*model.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Client, 0, len(r.s.clients.rows))
	for _, id := range r.s.clients.sorted() {
		c := r.s.clients.rows[id]
		out = append(out, &c)
	}
	return out, nil
}

type visitRepository struct{ s *Store }

func (r visitRepository) Create(_ context.Context, v *model.Visit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.visits.rows[v.ID]; taken {
		return fmt.Errorf("visit %d: %w", v.ID, repository.ErrDuplicateID)
	}
	r.s.visits.rows[v.ID] = *v
	return nil
}

func (r visitRepository) Get(_ context.Context, id int64) (*model.Visit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.visits.rows[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r visitRepository) List(context.Context) ([]*model.Visit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Visit, 0, len(r.s.visits.rows))
	for _, id := range r.s.visits.sorted() {
		v := r.s.visits.rows[id]
		out = append(out, &v)
	}
	return out, nil
}

func (r visitRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.visits.rows[id]
	delete(r.s.visits.rows, id)
	return ok, nil
}

func (r visitRepository) UpdateStatus(_ context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.visits.rows[id]
	if !ok {
		return nil, nil
	}
	v.Status = status
	r.s.visits.rows[id] = v
	return &v, nil
}

type sessionRepository struct{ s *Store }

func (r sessionRepository) Get(context.Context) (*model.SessionIdentity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.identity == nil {
		return nil, nil
	}
	identity := *r.s.identity
	return &identity, nil
}

func (r sessionRepository) Put(_ context.Context, identity *model.SessionIdentity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *identity
	r.s.identity = &stored
	return nil
}
