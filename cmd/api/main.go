package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/config"
	"github.com/jwalitptl/hms-api/internal/bootstrap"
	clientHandler "github.com/jwalitptl/hms-api/internal/handler/client"
	"github.com/jwalitptl/hms-api/internal/handler/health"
	practitionerHandler "github.com/jwalitptl/hms-api/internal/handler/practitioner"
	sessionHandler "github.com/jwalitptl/hms-api/internal/handler/session"
	visitHandler "github.com/jwalitptl/hms-api/internal/handler/visit"
	"github.com/jwalitptl/hms-api/internal/router"
	"github.com/jwalitptl/hms-api/internal/seed"
	clientService "github.com/jwalitptl/hms-api/internal/service/client"
	practitionerService "github.com/jwalitptl/hms-api/internal/service/practitioner"
	sessionService "github.com/jwalitptl/hms-api/internal/service/session"
	visitService "github.com/jwalitptl/hms-api/internal/service/visit"
	"github.com/jwalitptl/hms-api/pkg/logger"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := logger.ParseLevel(cfg.Log.Level)
	zerolog.SetGlobalLevel(level)
	appLogger := logger.NewLogger(&logger.Config{Level: level, TimeFormat: time.RFC3339, Output: os.Stdout})

	m := metrics.NewMetrics("hms", "api", nil)

	ctx := context.Background()

	// Initialize store
	store, err := bootstrap.OpenStore(ctx, cfg.Store, m)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer store.Close()

	if _, err := seed.NewSeeder(store, seed.DefaultDataset(), appLogger, m).SeedIfEmpty(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed store")
	}

	inserter, closeAllocator, err := bootstrap.NewInserter(ctx, cfg, store, m)
	if err != nil {
		log.Fatal().Err(err).Str("strategy", cfg.Allocator.Strategy).Msg("failed to initialize id allocator")
	}
	defer closeAllocator()

	policy, err := visitService.ParseStatusPolicy(cfg.Visits.StatusPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid visit status policy")
	}

	// Initialize services
	practitionerSvc := practitionerService.NewService(store.Practitioners(), inserter)
	clientSvc := clientService.NewService(store.Clients(), cfg.Cache.ClientTTL)
	visitSvc := visitService.NewService(store, inserter, policy)
	sessionSvc := sessionService.NewService(store.SessionIdentity())

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	rateLimit := 0.0
	if cfg.RateLimit.Enabled {
		rateLimit = cfg.RateLimit.RPS
	}
	r := router.NewRouter(
		router.RouterConfig{
			BasePath:       cfg.Server.BasePath,
			RateLimit:      rateLimit,
			RateBurst:      cfg.RateLimit.Burst,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		health.NewHandler(store),
		practitionerHandler.NewHandler(practitionerSvc),
		clientHandler.NewHandler(clientSvc),
		visitHandler.NewHandler(visitSvc),
		sessionHandler.NewHandler(sessionSvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("store", cfg.Store.Driver).
			Str("allocator", cfg.Allocator.Strategy).
			Str("status_policy", string(policy)).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
