package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/apitest"
	"github.com/jwalitptl/hms-api/internal/model"
)

func TestClient_AgainstAPI(t *testing.T) {
	srv := apitest.NewServer(t)
	c := New(srv.BaseURL, WithHTTPClient(srv.Client()))
	ctx := context.Background()

	practitioners, err := c.ListPractitioners(ctx)
	require.NoError(t, err)
	assert.Len(t, practitioners, 5)

	created, err := c.CreatePractitioner(ctx, model.CreatePractitionerRequest{Name: "Dr. Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
	require.NoError(t, c.DeletePractitioner(ctx, created.ID))

	clients, err := c.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 4)

	got, err := c.GetClient(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Smith", got.Name)

	missing, err := c.GetClient(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	visit, err := c.CreateVisit(ctx, model.CreateVisitRequest{
		ClientName:       "John Doe",
		PractitionerName: "Dr. Sarah Smith",
		Date:             "2030-01-02",
		Time:             "09:00 AM",
		Reason:           "Checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, model.VisitStatusConfirmed, visit.Status)

	updated, err := c.UpdateVisitStatus(ctx, visit.ID, model.VisitStatusCancelled)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.VisitStatusCancelled, updated.Status)

	gone, err := c.UpdateVisitStatus(ctx, 999, model.VisitStatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, gone)

	visits, err := c.ListVisits(ctx)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
	require.NoError(t, c.DeleteVisit(ctx, visit.ID))

	identity, err := c.GetSessionIdentity(ctx)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "John Doe", identity.Name)

	name := "Jane Roe"
	identity, err = c.UpdateSessionIdentity(ctx, model.SessionIdentityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", identity.Name)
	assert.Equal(t, "johndoe@example.com", identity.Email)
}

func TestClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","code":500,"message":"internal server error"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListVisits(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "internal server error", apiErr.Message)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteVisit(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_EmptySessionIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessionIdentity", r.URL.Path)
		_, _ = w.Write([]byte("{}\n"))
	}))
	defer srv.Close()

	identity, err := New(srv.URL + "/api/").GetSessionIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListPractitioners(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_CanceledContext(t *testing.T) {
	srv := apitest.NewServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.BaseURL).ListClients(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_BoundedOnlyByContext(t *testing.T) {
	assert.Zero(t, New("http://localhost").http.Timeout)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).ListVisits(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_WritesAnsweredWithoutRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	p, err := c.CreatePractitioner(ctx, model.CreatePractitionerRequest{Name: "Dr. Ada"})
	require.NoError(t, err)
	assert.Nil(t, p)

	v, err := c.CreateVisit(ctx, model.CreateVisitRequest{ClientName: "John Doe"})
	require.NoError(t, err)
	assert.Nil(t, v)

	name := "Jane Roe"
	identity, err := c.UpdateSessionIdentity(ctx, model.SessionIdentityPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, identity)
}
