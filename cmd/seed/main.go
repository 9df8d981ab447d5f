package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/config"
	"github.com/jwalitptl/hms-api/internal/bootstrap"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/seed"
	"github.com/jwalitptl/hms-api/pkg/logger"
)

// seed initializes the configured store and fills empty collections with
// the bootstrap dataset, then reports the size of every collection.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Store.Driver == config.DriverMemory {
		log.Fatal().Msg("seeding the memory store has no lasting effect")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg.Store, nil)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer store.Close()

	if _, err := seed.NewSeeder(store, seed.DefaultDataset(), appLogger, nil).SeedIfEmpty(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed store")
	}

	for _, collection := range model.Collections {
		n, err := store.Count(ctx, collection)
		if err != nil {
			log.Fatal().Err(err).Str("collection", collection.String()).Msg("failed to count collection")
		}
		appLogger.Info("collection ready", "collection", collection.String(), "count", n)
	}
}
