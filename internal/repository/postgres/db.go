// Package postgres opens the PostgreSQL record store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hms-api/config"
	"github.com/jwalitptl/hms-api/internal/repository/sqlstore"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

const uniqueViolation = pq.ErrorCode("23505")

// Dialect is the sqlstore dialect for lib/pq connections.
var Dialect = sqlstore.Dialect{
	Name:           "postgres",
	IsDuplicateKey: IsDuplicateKey,
}

// IsDuplicateKey reports whether err is a unique or primary key violation.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// NewDB connects to cfg.URL, makes sure the schema named cfg.Name exists and
// returns a connection whose search_path points at it.
func NewDB(ctx context.Context, cfg config.StoreConfig) (*sqlx.DB, error) {
	if cfg.Name != "" {
		if err := ensureSchema(ctx, cfg.URL, cfg.Name); err != nil {
			return nil, err
		}
	}

	dsn, err := withSearchPath(cfg.URL, cfg.Name)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewStore opens the database and applies the record schema.
func NewStore(ctx context.Context, cfg config.StoreConfig, m *metrics.Metrics) (*sqlstore.Store, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := sqlstore.New(db, Dialect, m)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func ensureSchema(ctx context.Context, dsn, schema string) error {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}
	return nil
}

// withSearchPath adds search_path to a URL style DSN. lib/pq forwards
// unrecognised parameters to the server as run-time settings.
func withSearchPath(dsn, schema string) (string, error) {
	if schema == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid store url: %w", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
