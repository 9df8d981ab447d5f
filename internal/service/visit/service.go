package visit

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms-api/internal/allocator"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
	"github.com/jwalitptl/hms-api/pkg/validator"
)

type VisitService interface {
	ListVisits(ctx context.Context) ([]*model.Visit, error)
	CreateVisit(ctx context.Context, req *model.CreateVisitRequest) (*model.Visit, error)
	DeleteVisit(ctx context.Context, id int64) error
	UpdateVisitStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error)
}

type Service struct {
	visits        repository.VisitRepository
	clients       repository.ClientRepository
	practitioners repository.PractitionerRepository
	inserter      *allocator.Inserter
	policy        StatusPolicy
	validator     validator.Validator
}

func NewService(store repository.Store, inserter *allocator.Inserter, policy StatusPolicy) *Service {
	return &Service{
		visits:        store.Visits(),
		clients:       store.Clients(),
		practitioners: store.Practitioners(),
		inserter:      inserter,
		policy:        policy,
		validator:     validator.New(),
	}
}

func (s *Service) ListVisits(ctx context.Context) ([]*model.Visit, error) {
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return visits, nil
}

// CreateVisit stores the request under a freshly allocated id. A missing
// status becomes Confirmed. Client and practitioner references are completed
// from whichever half of the name/id pair the caller supplied; a name that
// matches no record is stored as given with a zero id.
func (s *Service) CreateVisit(ctx context.Context, req *model.CreateVisitRequest) (*model.Visit, error) {
	visit := req.ToVisit()
	if visit.Status == "" {
		visit.Status = model.VisitStatusConfirmed
	}
	if err := s.policy.Check(s.validator, visit.Status); err != nil {
		return nil, apperrors.BadRequest("invalid visit status", err)
	}

	if err := s.resolveClient(ctx, visit); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.resolvePractitioner(ctx, visit); err != nil {
		return nil, apperrors.Internal(err)
	}

	_, err := s.inserter.Insert(ctx, model.CollectionVisits, func(id int64) error {
		visit.ID = id
		return s.visits.Create(ctx, visit)
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create visit: %w", err))
	}
	return visit, nil
}

func (s *Service) DeleteVisit(ctx context.Context, id int64) error {
	if _, err := s.visits.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// UpdateVisitStatus returns nil without error when no visit has the id.
func (s *Service) UpdateVisitStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	if err := s.policy.Check(s.validator, status); err != nil {
		return nil, apperrors.BadRequest("invalid visit status", err)
	}

	visit, err := s.visits.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return visit, nil
}

func (s *Service) resolveClient(ctx context.Context, visit *model.Visit) error {
	switch {
	case visit.ClientID != 0 && visit.ClientName == "":
		client, err := s.clients.Get(ctx, visit.ClientID)
		if err != nil {
			return fmt.Errorf("failed to look up client %d: %w", visit.ClientID, err)
		}
		if client != nil {
			visit.ClientName = client.Name
		}
	case visit.ClientID == 0 && visit.ClientName != "":
		clients, err := s.clients.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to look up client %q: %w", visit.ClientName, err)
		}
		for _, c := range clients {
			if c.Name == visit.ClientName {
				visit.ClientID = c.ID
				break
			}
		}
	}
	return nil
}

func (s *Service) resolvePractitioner(ctx context.Context, visit *model.Visit) error {
	if (visit.PractitionerID == 0) == (visit.PractitionerName == "") {
		return nil
	}

	practitioners, err := s.practitioners.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up practitioner: %w", err)
	}
	for _, p := range practitioners {
		if visit.PractitionerID == 0 && p.Name == visit.PractitionerName {
			visit.PractitionerID = p.ID
			break
		}
		if visit.PractitionerName == "" && p.ID == visit.PractitionerID {
			visit.PractitionerName = p.Name
			break
		}
	}
	return nil
}
