package session

import (
	"context"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

type SessionIdentityService interface {
	GetSessionIdentity(ctx context.Context) (*model.SessionIdentity, error)
	UpdateSessionIdentity(ctx context.Context, patch *model.SessionIdentityPatch) (*model.SessionIdentity, error)
}

type Service struct {
	repo repository.SessionIdentityRepository
}

func NewService(repo repository.SessionIdentityRepository) *Service {
	return &Service{repo: repo}
}

// GetSessionIdentity returns nil without error before any identity exists.
func (s *Service) GetSessionIdentity(ctx context.Context) (*model.SessionIdentity, error) {
	identity, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return identity, nil
}

// UpdateSessionIdentity merges the supplied fields into the stored identity,
// creating it when absent, and returns the merged record. The read and the
// write are separate store calls; concurrent updates may interleave and the
// last write wins.
func (s *Service) UpdateSessionIdentity(ctx context.Context, patch *model.SessionIdentityPatch) (*model.SessionIdentity, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if current == nil {
		current = &model.SessionIdentity{}
	}

	patch.Apply(current)
	if err := s.repo.Put(ctx, current); err != nil {
		return nil, apperrors.Internal(err)
	}
	return current, nil
}
