package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/internal/repository/memory"
)

type countingRepo struct {
	repository.ClientRepository
	gets int
}

func (r *countingRepo) Get(ctx context.Context, id int64) (*model.Client, error) {
	r.gets++
	return r.ClientRepository.Get(ctx, id)
}

func TestGetClient(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	jane := &model.Client{ID: 2, Name: "Jane Smith", Age: 25}
	require.NoError(t, store.Clients().Create(ctx, jane))

	svc := NewService(store.Clients(), time.Minute)

	got, err := svc.GetClient(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, jane, got)

	missing, err := svc.GetClient(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetClientCachesHits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Clients().Create(ctx, &model.Client{ID: 1, Name: "John Doe"}))

	repo := &countingRepo{ClientRepository: store.Clients()}
	svc := NewService(repo, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := svc.GetClient(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", got.Name)
	}
	assert.Equal(t, 1, repo.gets)

	// Callers cannot modify the cached copy.
	got, err := svc.GetClient(ctx, 1)
	require.NoError(t, err)
	got.Name = "changed"
	again, err := svc.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", again.Name)
}

func TestGetClientDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Clients(), time.Minute)

	missing, err := svc.GetClient(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Clients().Create(ctx, &model.Client{ID: 5, Name: "Late Arrival"}))
	got, err := svc.GetClient(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Late Arrival", got.Name)
}

func TestGetClientWithoutCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Clients().Create(ctx, &model.Client{ID: 1}))

	repo := &countingRepo{ClientRepository: store.Clients()}
	svc := NewService(repo, 0)

	_, err := svc.GetClient(ctx, 1)
	require.NoError(t, err)
	_, err = svc.GetClient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets)
}

func TestListClients(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Clients().Create(ctx, &model.Client{ID: 2}))
	require.NoError(t, store.Clients().Create(ctx, &model.Client{ID: 1}))

	list, err := NewService(store.Clients(), 0).ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
}
