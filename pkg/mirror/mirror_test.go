package mirror

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/apitest"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/client"
)

var errNetwork = errors.New("connection refused")

// fakeAPI serves fixed data and fails the calls named in fail.
type fakeAPI struct {
	mu       sync.Mutex
	fail     map[string]bool
	nextID   int64
	identity *model.SessionIdentity
	visits   []model.Visit
	missing  map[int64]bool
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		fail:     map[string]bool{},
		missing:  map[int64]bool{},
		nextID:   10,
		identity: &model.SessionIdentity{ID: 1, Name: "John Doe", Email: "johndoe@example.com"},
		visits: []model.Visit{
			{ID: 1, ClientName: "John Doe", PractitionerName: "Dr. Sarah Smith", Date: "2030-01-01", Time: "09:00 AM", Status: model.VisitStatusConfirmed},
			{ID: 2, ClientName: "Jane Smith", PractitionerName: "Dr. Lisa Davis", Date: "2030-01-02", Time: "10:00 AM", Status: model.VisitStatusConfirmed},
		},
	}
}

func (f *fakeAPI) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.fail[name] {
		return errNetwork
	}
	return nil
}

func (f *fakeAPI) ListPractitioners(context.Context) ([]model.Practitioner, error) {
	if err := f.call("ListPractitioners"); err != nil {
		return nil, err
	}
	return []model.Practitioner{{ID: 1, Name: "Dr. Sarah Smith"}, {ID: 2, Name: "Dr. Lisa Davis"}}, nil
}

func (f *fakeAPI) CreatePractitioner(_ context.Context, req model.CreatePractitionerRequest) (*model.Practitioner, error) {
	if err := f.call("CreatePractitioner"); err != nil {
		return nil, err
	}
	f.nextID++
	return &model.Practitioner{ID: f.nextID, Name: req.Name}, nil
}

func (f *fakeAPI) DeletePractitioner(context.Context, int64) error {
	return f.call("DeletePractitioner")
}

func (f *fakeAPI) ListClients(context.Context) ([]model.Client, error) {
	if err := f.call("ListClients"); err != nil {
		return nil, err
	}
	return []model.Client{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}, {ID: 3, Name: "Robert Wilson"}}, nil
}

func (f *fakeAPI) ListVisits(context.Context) ([]model.Visit, error) {
	if err := f.call("ListVisits"); err != nil {
		return nil, err
	}
	return append([]model.Visit(nil), f.visits...), nil
}

func (f *fakeAPI) CreateVisit(_ context.Context, req model.CreateVisitRequest) (*model.Visit, error) {
	if err := f.call("CreateVisit"); err != nil {
		return nil, err
	}
	f.nextID++
	v := req.ToVisit()
	v.ID = f.nextID
	if v.Status == "" {
		v.Status = model.VisitStatusConfirmed
	}
	return v, nil
}

func (f *fakeAPI) DeleteVisit(context.Context, int64) error {
	return f.call("DeleteVisit")
}

func (f *fakeAPI) UpdateVisitStatus(_ context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	if err := f.call("UpdateVisitStatus"); err != nil {
		return nil, err
	}
	if f.missing[id] {
		return nil, nil
	}
	for _, v := range f.visits {
		if v.ID == id {
			v.Status = status
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeAPI) GetSessionIdentity(context.Context) (*model.SessionIdentity, error) {
	if err := f.call("GetSessionIdentity"); err != nil {
		return nil, err
	}
	return f.identity, nil
}

func (f *fakeAPI) UpdateSessionIdentity(_ context.Context, patch model.SessionIdentityPatch) (*model.SessionIdentity, error) {
	if err := f.call("UpdateSessionIdentity"); err != nil {
		return nil, err
	}
	identity := *f.identity
	patch.Apply(&identity)
	return &identity, nil
}

func initialized(t *testing.T, api API) *Mirror {
	t.Helper()
	m := New(api, nil)
	require.NoError(t, m.Init(context.Background()))
	return m
}

func TestMirror_ReadsBeforeInitAreEmpty(t *testing.T) {
	m := New(newFakeAPI(), nil)

	assert.False(t, m.Initialized())
	assert.Empty(t, m.Practitioners())
	assert.Empty(t, m.Clients())
	assert.Empty(t, m.Visits())
	identity := m.SessionIdentity()
	assert.True(t, identity.IsZero())
}

func TestMirror_Init(t *testing.T) {
	m := initialized(t, newFakeAPI())

	assert.True(t, m.Initialized())
	assert.Len(t, m.Practitioners(), 2)
	assert.Len(t, m.Clients(), 3)
	assert.Len(t, m.Visits(), 2)
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
}

func TestMirror_InitPartialFailure(t *testing.T) {
	api := newFakeAPI()
	m := initialized(t, api)

	api.fail["ListClients"] = true
	api.fail["GetSessionIdentity"] = true
	api.visits = api.visits[:1]

	err := m.Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errNetwork)
	assert.Contains(t, err.Error(), "clients")
	assert.Contains(t, err.Error(), "session identity")

	// Failed parts keep their previous value, the rest are replaced.
	assert.Len(t, m.Clients(), 3)
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
	assert.Len(t, m.Visits(), 1)
}

func TestMirror_InitKeepsIdentityWithoutName(t *testing.T) {
	api := newFakeAPI()
	m := initialized(t, api)

	api.identity = &model.SessionIdentity{Email: "anonymous@example.com"}
	require.NoError(t, m.Init(context.Background()))
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)

	api.identity = nil
	require.NoError(t, m.Init(context.Background()))
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
}

func TestMirror_CopyIsolation(t *testing.T) {
	m := initialized(t, newFakeAPI())

	practitioners := m.Practitioners()
	practitioners[0].Name = "changed"
	practitioners[1] = model.Practitioner{}

	visits := m.Visits()
	visits[0].Status = model.VisitStatusCancelled

	identity := m.SessionIdentity()
	identity.Name = "changed"

	assert.Len(t, m.Practitioners(), 2)
	assert.Equal(t, "Dr. Sarah Smith", m.Practitioners()[0].Name)
	assert.Equal(t, model.VisitStatusConfirmed, m.Visits()[0].Status)
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
}

func TestMirror_Mutations(t *testing.T) {
	m := initialized(t, newFakeAPI())
	ctx := context.Background()

	p, err := m.AddPractitioner(ctx, model.CreatePractitionerRequest{Name: "Dr. Ada"})
	require.NoError(t, err)
	assert.Len(t, m.Practitioners(), 3)
	assert.Equal(t, p.ID, m.Practitioners()[2].ID)

	require.NoError(t, m.DeletePractitioner(ctx, p.ID))
	assert.Len(t, m.Practitioners(), 2)

	v, err := m.AddVisit(ctx, model.CreateVisitRequest{ClientName: "John Doe", PractitionerName: "Dr. Ada"})
	require.NoError(t, err)
	assert.Equal(t, model.VisitStatusConfirmed, v.Status)
	assert.Len(t, m.Visits(), 3)

	require.NoError(t, m.DeleteVisit(ctx, v.ID))
	assert.Len(t, m.Visits(), 2)

	updated, err := m.UpdateVisitStatus(ctx, 2, model.VisitStatusCancelled)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.VisitStatusCancelled, m.Visits()[1].Status)

	name := "Jane Roe"
	_, err = m.SetSessionIdentity(ctx, model.SessionIdentityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", m.SessionIdentity().Name)
	assert.Equal(t, "johndoe@example.com", m.SessionIdentity().Email)
}

func TestMirror_FailedMutationLeavesStateUnchanged(t *testing.T) {
	api := newFakeAPI()
	m := initialized(t, api)
	ctx := context.Background()
	for _, name := range []string{"CreatePractitioner", "DeletePractitioner", "CreateVisit", "DeleteVisit", "UpdateVisitStatus", "UpdateSessionIdentity"} {
		api.fail[name] = true
	}

	_, err := m.AddPractitioner(ctx, model.CreatePractitionerRequest{Name: "Dr. Ada"})
	assert.ErrorIs(t, err, errNetwork)
	assert.ErrorIs(t, m.DeletePractitioner(ctx, 1), errNetwork)
	_, err = m.AddVisit(ctx, model.CreateVisitRequest{ClientName: "John Doe"})
	assert.ErrorIs(t, err, errNetwork)
	assert.ErrorIs(t, m.DeleteVisit(ctx, 1), errNetwork)
	_, err = m.UpdateVisitStatus(ctx, 1, model.VisitStatusCancelled)
	assert.ErrorIs(t, err, errNetwork)
	name := "Jane Roe"
	_, err = m.SetSessionIdentity(ctx, model.SessionIdentityPatch{Name: &name})
	assert.ErrorIs(t, err, errNetwork)

	assert.Len(t, m.Practitioners(), 2)
	assert.Len(t, m.Visits(), 2)
	assert.Equal(t, model.VisitStatusConfirmed, m.Visits()[0].Status)
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
}

func TestMirror_UpdateStatusOfVanishedVisit(t *testing.T) {
	api := newFakeAPI()
	m := initialized(t, api)
	api.missing[1] = true

	updated, err := m.UpdateVisitStatus(context.Background(), 1, model.VisitStatusCancelled)
	require.NoError(t, err)
	assert.Nil(t, updated)
	require.Len(t, m.Visits(), 1)
	assert.Equal(t, int64(2), m.Visits()[0].ID)
}

func TestMirror_ConcurrentMutations(t *testing.T) {
	m := initialized(t, newFakeAPI())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.AddPractitioner(context.Background(), model.CreatePractitionerRequest{Name: "Dr. Parallel"})
			assert.NoError(t, err)
			_ = m.Practitioners()
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, p := range m.Practitioners() {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
	assert.Len(t, seen, 22)
}

func TestMirror_AgainstAPI(t *testing.T) {
	srv := apitest.NewServer(t)
	m := New(client.New(srv.BaseURL, client.WithHTTPClient(srv.Client())), nil)
	ctx := context.Background()
	require.NoError(t, m.Init(ctx))

	assert.Len(t, m.Practitioners(), 5)
	assert.Len(t, m.Clients(), 4)
	assert.Empty(t, m.Visits())
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)

	now := time.Date(2030, 3, 10, 15, 0, 0, 0, time.UTC)
	booked, err := m.BookVisit(ctx, BookingRequest{
		PractitionerName: "Dr. Emily Williams",
		Date:             "2030-03-10",
		Time:             "04:30 PM",
		Reason:           "Fever",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), booked.ID)
	assert.Equal(t, "John Doe", booked.ClientName)
	assert.Equal(t, int64(1), booked.ClientID)
	assert.Equal(t, int64(3), booked.PractitionerID)

	_, err = m.UpdateVisitStatus(ctx, booked.ID, model.VisitStatusCancelled)
	require.NoError(t, err)

	// A fresh mirror sees the same state as the one that wrote it.
	other := New(client.New(srv.BaseURL), nil)
	require.NoError(t, other.Init(ctx))
	assert.Equal(t, m.Visits(), other.Visits())

	require.NoError(t, other.DeleteVisit(ctx, booked.ID))
	// The first mirror has no way of learning about the delete until the
	// next status change or Init.
	assert.Len(t, m.Visits(), 1)
	updated, err := m.UpdateVisitStatus(ctx, booked.ID, model.VisitStatusConfirmed)
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Empty(t, m.Visits())
}

func TestMirror_InitAgainstUnreachableAPI(t *testing.T) {
	srv := apitest.NewServer(t)
	url := srv.BaseURL
	srv.Close()

	m := New(client.New(url), nil)
	err := m.Init(context.Background())
	require.Error(t, err)
	assert.True(t, m.Initialized())
	assert.Empty(t, m.Practitioners())
}

func TestMirror_WritesAnsweredWithoutRecordLeaveStateUnchanged(t *testing.T) {
	api := apitest.NewServer(t)
	// Reads go to the real API; every write is answered with an empty object.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			api.Config.Handler.ServeHTTP(w, r)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	m := New(client.New(srv.URL+"/api"), nil)
	ctx := context.Background()
	require.NoError(t, m.Init(ctx))

	_, err := m.AddPractitioner(ctx, model.CreatePractitionerRequest{Name: "Dr. Ada"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	_, err = m.AddVisit(ctx, model.CreateVisitRequest{ClientName: "John Doe"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	name := "Jane Roe"
	_, err = m.SetSessionIdentity(ctx, model.SessionIdentityPatch{Name: &name})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	assert.Len(t, m.Practitioners(), 5)
	assert.Empty(t, m.Visits())
	assert.Equal(t, "John Doe", m.SessionIdentity().Name)
}
