package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/hms-api/internal/model"
)

var (
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownCollection is returned for collection names outside model.Collections.
	ErrUnknownCollection = errors.New("unknown collection")
)

// All repository interfaces in one file
type (
	// PractitionerRepository stores practitioners keyed by their integer id.
	PractitionerRepository interface {
		Create(ctx context.Context, practitioner *model.Practitioner) error
		List(ctx context.Context) ([]*model.Practitioner, error)
		// Delete reports whether a record matched.
		Delete(ctx context.Context, id int64) (bool, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		// Get returns nil, nil when no client has the id.
		Get(ctx context.Context, id int64) (*model.Client, error)
		List(ctx context.Context) ([]*model.Client, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id int64) (*model.Visit, error)
		List(ctx context.Context) ([]*model.Visit, error)
		Delete(ctx context.Context, id int64) (bool, error)
		// UpdateStatus sets the status unconditionally and returns the stored
		// record, or nil when the id matched nothing.
		UpdateStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error)
	}

	SessionIdentityRepository interface {
		// Get returns nil, nil while the singleton does not exist.
		Get(ctx context.Context) (*model.SessionIdentity, error)
		// Put replaces the singleton, creating it when absent.
		Put(ctx context.Context, identity *model.SessionIdentity) error
	}

	// CollectionStats exposes the per-collection aggregates used by id
	// allocation and seeding.
	CollectionStats interface {
		MaxID(ctx context.Context, collection model.Collection) (int64, error)
		Count(ctx context.Context, collection model.Collection) (int64, error)
	}

	// Store is the Record Store: the four collections plus their aggregates.
	Store interface {
		CollectionStats
		Practitioners() PractitionerRepository
		Clients() ClientRepository
		Visits() VisitRepository
		SessionIdentity() SessionIdentityRepository
		Ping(ctx context.Context) error
		Close() error
	}
)
