// Package repotest runs the record store contract against any
// repository.Store implementation.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/allocator"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/internal/service/practitioner"
)

// Run exercises every store operation. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("practitioners", func(t *testing.T) { testPractitioners(t, newStore(t)) })
	t.Run("clients", func(t *testing.T) { testClients(t, newStore(t)) })
	t.Run("visits", func(t *testing.T) { testVisits(t, newStore(t)) })
	t.Run("session identity", func(t *testing.T) { testSessionIdentity(t, newStore(t)) })
	t.Run("stats", func(t *testing.T) { testStats(t, newStore(t)) })
	t.Run("sequential ids", func(t *testing.T) { testSequentialIDs(t, newStore(t)) })
}

// testSequentialIDs creates practitioners one at a time through the service
// on an empty store and expects ids 1..n in creation order.
func testSequentialIDs(t *testing.T, store repository.Store) {
	ctx := context.Background()
	inserter := allocator.NewInserter(allocator.NewMaxPlusOne(store, nil), 10, nil)
	svc := practitioner.NewService(store.Practitioners(), inserter)

	names := []string{"Dr. One", "Dr. Two", "Dr. Three", "Dr. Four"}
	for i, name := range names {
		created, err := svc.CreatePractitioner(ctx, &model.CreatePractitionerRequest{Name: name})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), created.ID)
	}

	list, err := svc.ListPractitioners(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(names))
	for i, p := range list {
		assert.Equal(t, int64(i+1), p.ID)
		assert.Equal(t, names[i], p.Name)
	}
}

func testPractitioners(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Practitioners()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Create(ctx, &model.Practitioner{ID: 2, Name: "Dr. Jones", Specialization: "Pediatrics"}))
	require.NoError(t, repo.Create(ctx, &model.Practitioner{ID: 1, Name: "Dr. Smith"}))

	err = repo.Create(ctx, &model.Practitioner{ID: 1, Name: "Dr. Other"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrDuplicateID))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "Dr. Smith", list[0].Name)
	assert.Equal(t, "", list[0].Specialization)
	assert.Equal(t, "Pediatrics", list[1].Specialization)

	found, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
}

func testClients(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Clients()

	missing, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, missing)

	jane := &model.Client{ID: 7, Name: "Jane Roe", Age: 41, Email: "jane@example.com", LastVisit: "2024-03-01"}
	require.NoError(t, repo.Create(ctx, jane))

	err = repo.Create(ctx, &model.Client{ID: 7})
	assert.ErrorIs(t, err, repository.ErrDuplicateID)

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, jane, got)

	// Returned records are copies.
	got.Name = "changed"
	again, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", again.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*model.Client{jane}, list)
}

func testVisits(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.Visits()

	visit := &model.Visit{
		ID:               1,
		ClientName:       "John Doe",
		ClientID:         3,
		PractitionerName: "Dr. Smith",
		PractitionerID:   1,
		Date:             "2024-05-01",
		Time:             "10:00 AM",
		Reason:           "Checkup",
		Status:           model.VisitStatusConfirmed,
	}
	require.NoError(t, repo.Create(ctx, visit))
	assert.ErrorIs(t, repo.Create(ctx, &model.Visit{ID: 1}), repository.ErrDuplicateID)

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, visit, got)

	updated, err := repo.UpdateStatus(ctx, 1, model.VisitStatusCancelled)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.VisitStatusCancelled, updated.Status)
	assert.Equal(t, "Checkup", updated.Reason)

	// Any status string is stored as given.
	updated, err = repo.UpdateStatus(ctx, 1, "Rescheduled")
	require.NoError(t, err)
	assert.Equal(t, model.VisitStatus("Rescheduled"), updated.Status)

	missing, err := repo.UpdateStatus(ctx, 99, model.VisitStatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	found, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)

	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testSessionIdentity(t *testing.T, store repository.Store) {
	ctx := context.Background()
	repo := store.SessionIdentity()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Put(ctx, &model.SessionIdentity{ID: 1, Name: "John Doe", Email: "johndoe@example.com"}))
	require.NoError(t, repo.Put(ctx, &model.SessionIdentity{ID: 1, Name: "Jane Doe", Email: "johndoe@example.com"}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.SessionIdentity{ID: 1, Name: "Jane Doe", Email: "johndoe@example.com"}, got)

	count, err := store.Count(ctx, model.CollectionSessionIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func testStats(t *testing.T, store repository.Store) {
	ctx := context.Background()

	for _, c := range model.Collections {
		highest, err := store.MaxID(ctx, c)
		require.NoError(t, err, c)
		assert.Zero(t, highest, c)

		n, err := store.Count(ctx, c)
		require.NoError(t, err, c)
		assert.Zero(t, n, c)
	}

	require.NoError(t, store.Visits().Create(ctx, &model.Visit{ID: 4}))
	require.NoError(t, store.Visits().Create(ctx, &model.Visit{ID: 9}))

	highest, err := store.MaxID(ctx, model.CollectionVisits)
	require.NoError(t, err)
	assert.Equal(t, int64(9), highest)

	n, err := store.Count(ctx, model.CollectionVisits)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.MaxID(ctx, model.Collection("doctors"))
	assert.ErrorIs(t, err, repository.ErrUnknownCollection)
	_, err = store.Count(ctx, model.Collection("doctors"))
	assert.ErrorIs(t, err, repository.ErrUnknownCollection)

	assert.NoError(t, store.Ping(ctx))
}
