// Package mirror keeps a synchronously readable copy of the hms records
// inside a consuming application. Writes go to the API first and are applied
// locally only when the API accepted them.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

// API is the subset of the hms API the mirror talks to. *client.Client
// satisfies it.
type API interface {
	ListPractitioners(ctx context.Context) ([]model.Practitioner, error)
	CreatePractitioner(ctx context.Context, req model.CreatePractitionerRequest) (*model.Practitioner, error)
	DeletePractitioner(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]model.Client, error)
	ListVisits(ctx context.Context) ([]model.Visit, error)
	CreateVisit(ctx context.Context, req model.CreateVisitRequest) (*model.Visit, error)
	DeleteVisit(ctx context.Context, id int64) error
	UpdateVisitStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error)
	GetSessionIdentity(ctx context.Context) (*model.SessionIdentity, error)
	UpdateSessionIdentity(ctx context.Context, patch model.SessionIdentityPatch) (*model.SessionIdentity, error)
}

// ErrEmptyResponse is returned when the API accepts a write but answers
// without the resulting record.
var ErrEmptyResponse = errors.New("api returned no record")

type Mirror struct {
	api       API
	log       *logger.Logger
	validator validator.Validator

	// writeMu serializes mutations end to end; mu guards the snapshot.
	writeMu sync.Mutex
	mu      sync.RWMutex

	initialized   bool
	practitioners []model.Practitioner
	clients       []model.Client
	visits        []model.Visit
	identity      model.SessionIdentity
}

// New returns an empty mirror. Call Init to load the snapshot.
func New(api API, log *logger.Logger) *Mirror {
	if log == nil {
		log = logger.Nop()
	}
	v := validator.New()
	// The rule name is fixed and the function is valid, so registration
	// cannot fail.
	_ = v.RegisterRule("timeslot", func(value interface{}) bool {
		s, ok := value.(string)
		return ok && IsTimeSlot(s)
	})
	return &Mirror{api: api, log: log, validator: v}
}

// Init fetches all four collections concurrently. Every fetch that
// succeeds replaces its part of the snapshot; failed parts keep their
// previous value and the failures are returned joined together.
func (m *Mirror) Init(ctx context.Context) error {
	var (
		practitioners []model.Practitioner
		clients       []model.Client
		visits        []model.Visit
		identity      *model.SessionIdentity

		okPractitioners, okClients, okVisits, okIdentity bool
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		if practitioners, err = m.api.ListPractitioners(ctx); err != nil {
			return fmt.Errorf("failed to load practitioners: %w", err)
		}
		okPractitioners = true
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if clients, err = m.api.ListClients(ctx); err != nil {
			return fmt.Errorf("failed to load clients: %w", err)
		}
		okClients = true
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if visits, err = m.api.ListVisits(ctx); err != nil {
			return fmt.Errorf("failed to load visits: %w", err)
		}
		okVisits = true
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		if identity, err = m.api.GetSessionIdentity(ctx); err != nil {
			return fmt.Errorf("failed to load session identity: %w", err)
		}
		okIdentity = true
		return nil
	})
	err := p.Wait()

	m.mu.Lock()
	if okPractitioners {
		m.practitioners = nonNil(practitioners)
	}
	if okClients {
		m.clients = nonNil(clients)
	}
	if okVisits {
		m.visits = nonNil(visits)
	}
	if okIdentity && identity != nil && identity.Name != "" {
		m.identity = *identity
	}
	m.initialized = true
	m.mu.Unlock()

	if err != nil {
		m.log.Error(err, "Mirror initialized with errors")
		return err
	}
	m.log.Info("Mirror initialized",
		"practitioners", len(practitioners),
		"clients", len(clients),
		"visits", len(visits))
	return nil
}

// Initialized reports whether Init has run at least once.
func (m *Mirror) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *Mirror) Practitioners() []model.Practitioner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.practitioners)
}

func (m *Mirror) Clients() []model.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.clients)
}

func (m *Mirror) Visits() []model.Visit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.visits)
}

func (m *Mirror) SessionIdentity() model.SessionIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

func (m *Mirror) AddPractitioner(ctx context.Context, req model.CreatePractitionerRequest) (*model.Practitioner, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	created, err := m.api.CreatePractitioner(ctx, req)
	if err != nil {
		m.log.Error(err, "Failed to add practitioner")
		return nil, err
	}
	if created == nil {
		return nil, m.fail(fmt.Errorf("creating practitioner: %w", ErrEmptyResponse), "Failed to add practitioner")
	}

	m.mu.Lock()
	m.practitioners = append(m.practitioners, *created)
	m.mu.Unlock()
	return created, nil
}

func (m *Mirror) AddVisit(ctx context.Context, req model.CreateVisitRequest) (*model.Visit, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.addVisit(ctx, req)
}

func (m *Mirror) addVisit(ctx context.Context, req model.CreateVisitRequest) (*model.Visit, error) {
	created, err := m.api.CreateVisit(ctx, req)
	if err != nil {
		m.log.Error(err, "Failed to add visit")
		return nil, err
	}
	if created == nil {
		return nil, m.fail(fmt.Errorf("creating visit: %w", ErrEmptyResponse), "Failed to add visit")
	}

	m.mu.Lock()
	m.visits = append(m.visits, *created)
	m.mu.Unlock()
	return created, nil
}

func (m *Mirror) DeletePractitioner(ctx context.Context, id int64) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.api.DeletePractitioner(ctx, id); err != nil {
		m.log.Error(err, "Failed to delete practitioner", "id", id)
		return err
	}

	m.mu.Lock()
	m.practitioners = without(m.practitioners, func(p model.Practitioner) bool { return p.ID == id })
	m.mu.Unlock()
	return nil
}

func (m *Mirror) DeleteVisit(ctx context.Context, id int64) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.api.DeleteVisit(ctx, id); err != nil {
		m.log.Error(err, "Failed to delete visit", "id", id)
		return err
	}

	m.mu.Lock()
	m.visits = without(m.visits, func(v model.Visit) bool { return v.ID == id })
	m.mu.Unlock()
	return nil
}

// UpdateVisitStatus replaces the local visit with the stored one. When the
// API no longer knows the id the local entry is dropped and nil returned.
func (m *Mirror) UpdateVisitStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	updated, err := m.api.UpdateVisitStatus(ctx, id, status)
	if err != nil {
		m.log.Error(err, "Failed to update visit status", "id", id, "status", status)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if updated == nil {
		m.visits = without(m.visits, func(v model.Visit) bool { return v.ID == id })
		m.log.Warn("Visit no longer exists, dropped from mirror", "id", id)
		return nil, nil
	}
	for i := range m.visits {
		if m.visits[i].ID == id {
			m.visits[i] = *updated
			break
		}
	}
	return updated, nil
}

func (m *Mirror) SetSessionIdentity(ctx context.Context, patch model.SessionIdentityPatch) (*model.SessionIdentity, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	updated, err := m.api.UpdateSessionIdentity(ctx, patch)
	if err != nil {
		m.log.Error(err, "Failed to update session identity")
		return nil, err
	}
	if updated == nil {
		return nil, m.fail(fmt.Errorf("updating session identity: %w", ErrEmptyResponse), "Failed to update session identity")
	}

	m.mu.Lock()
	m.identity = *updated
	m.mu.Unlock()
	return updated, nil
}

func (m *Mirror) fail(err error, msg string) error {
	m.log.Error(err, msg)
	return err
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// without returns a new slice so earlier copies handed to callers are never
// rewritten in place.
func without[T any](in []T, drop func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
