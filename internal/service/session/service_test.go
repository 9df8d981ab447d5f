package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository/memory"
)

func ptr[T any](v T) *T { return &v }

func TestGetSessionIdentityBeforeSeed(t *testing.T) {
	identity, err := NewService(memory.NewStore().SessionIdentity()).GetSessionIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestUpdateSessionIdentityMerges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SessionIdentity().Put(ctx, &model.SessionIdentity{ID: 1, Name: "John Doe", Email: "johndoe@example.com"}))
	svc := NewService(store.SessionIdentity())

	merged, err := svc.UpdateSessionIdentity(ctx, &model.SessionIdentityPatch{Name: ptr("Jane Doe")})
	require.NoError(t, err)
	assert.Equal(t, &model.SessionIdentity{ID: 1, Name: "Jane Doe", Email: "johndoe@example.com"}, merged)

	got, err := svc.GetSessionIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, merged, got)
}

func TestUpdateSessionIdentityCreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.SessionIdentity())

	merged, err := svc.UpdateSessionIdentity(ctx, &model.SessionIdentityPatch{Email: ptr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, &model.SessionIdentity{Email: "new@example.com"}, merged)

	n, err := store.Count(ctx, model.CollectionSessionIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
