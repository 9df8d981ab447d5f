// Package apitest starts the full HTTP API over an in-memory store for
// tests of API consumers.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/allocator"
	clienthandler "github.com/jwalitptl/hms-api/internal/handler/client"
	"github.com/jwalitptl/hms-api/internal/handler/health"
	practitionerhandler "github.com/jwalitptl/hms-api/internal/handler/practitioner"
	sessionhandler "github.com/jwalitptl/hms-api/internal/handler/session"
	visithandler "github.com/jwalitptl/hms-api/internal/handler/visit"
	"github.com/jwalitptl/hms-api/internal/repository/memory"
	"github.com/jwalitptl/hms-api/internal/router"
	"github.com/jwalitptl/hms-api/internal/seed"
	"github.com/jwalitptl/hms-api/internal/service/client"
	"github.com/jwalitptl/hms-api/internal/service/practitioner"
	"github.com/jwalitptl/hms-api/internal/service/session"
	"github.com/jwalitptl/hms-api/internal/service/visit"
)

type Server struct {
	*httptest.Server
	Store *memory.Store
	// BaseURL includes the /api prefix.
	BaseURL string
}

// NewServer seeds a memory store with the default dataset and serves the
// API over it until the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	_, err := seed.NewSeeder(store, seed.DefaultDataset(), nil, nil).SeedIfEmpty(context.Background())
	require.NoError(t, err)

	inserter := allocator.NewInserter(allocator.NewMaxPlusOne(store, nil), 10, nil)
	reg := prometheus.NewRegistry()
	r := router.NewRouter(router.RouterConfig{
		BasePath:   "/api",
		Registerer: reg,
		Gatherer:   reg,
	},
		health.NewHandler(store),
		practitionerhandler.NewHandler(practitioner.NewService(store.Practitioners(), inserter)),
		clienthandler.NewHandler(client.NewService(store.Clients(), time.Minute)),
		visithandler.NewHandler(visit.NewService(store, inserter, visit.PolicyLenient)),
		sessionhandler.NewHandler(session.NewService(store.SessionIdentity())),
	)
	r.Setup()

	srv := httptest.NewServer(r.Engine())
	t.Cleanup(srv.Close)
	return &Server{Server: srv, Store: store, BaseURL: srv.URL + "/api"}
}
