package practitioner

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hms-api/internal/allocator"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

type PractitionerService interface {
	ListPractitioners(ctx context.Context) ([]*model.Practitioner, error)
	CreatePractitioner(ctx context.Context, req *model.CreatePractitionerRequest) (*model.Practitioner, error)
	DeletePractitioner(ctx context.Context, id int64) error
}

type Service struct {
	repo     repository.PractitionerRepository
	inserter *allocator.Inserter
}

func NewService(repo repository.PractitionerRepository, inserter *allocator.Inserter) *Service {
	return &Service{repo: repo, inserter: inserter}
}

func (s *Service) ListPractitioners(ctx context.Context) ([]*model.Practitioner, error) {
	practitioners, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return practitioners, nil
}

// CreatePractitioner stores the request under a freshly allocated id.
func (s *Service) CreatePractitioner(ctx context.Context, req *model.CreatePractitionerRequest) (*model.Practitioner, error) {
	practitioner := req.ToPractitioner()

	_, err := s.inserter.Insert(ctx, model.CollectionPractitioners, func(id int64) error {
		practitioner.ID = id
		return s.repo.Create(ctx, practitioner)
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create practitioner: %w", err))
	}
	return practitioner, nil
}

// DeletePractitioner succeeds whether or not the id matched a record.
// Visits naming the practitioner are left untouched.
func (s *Service) DeletePractitioner(ctx context.Context, id int64) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
