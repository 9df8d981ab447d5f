package client

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

type ClientService interface {
	ListClients(ctx context.Context) ([]*model.Client, error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
}

// Service serves clients read only. Clients never change once stored, so
// lookups by id are cached; misses are not cached because a client with
// that id may be inserted later.
type Service struct {
	repo  repository.ClientRepository
	cache *cache.Cache
}

// NewService caches lookups for ttl. A ttl of zero disables the cache.
func NewService(repo repository.ClientRepository, ttl time.Duration) *Service {
	s := &Service{repo: repo}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *Service) ListClients(ctx context.Context) ([]*model.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return clients, nil
}

// GetClient returns nil without error when no client has the id.
func (s *Service) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	key := strconv.FormatInt(id, 10)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			c := cached.(model.Client)
			return &c, nil
		}
	}

	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if client != nil && s.cache != nil {
		s.cache.SetDefault(key, *client)
	}
	return client, nil
}
