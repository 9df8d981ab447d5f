// Package sqlite opens the file backed record store on the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jwalitptl/hms-api/config"
	"github.com/jwalitptl/hms-api/internal/repository/sqlstore"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Dialect is the sqlstore dialect for modernc sqlite connections.
var Dialect = sqlstore.Dialect{
	Name:           driverName,
	IsDuplicateKey: IsDuplicateKey,
}

// IsDuplicateKey reports whether err is a primary key or unique violation.
func IsDuplicateKey(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(sqlErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// Path returns the database file for cfg. A store url without a scheme is
// taken as the file path; otherwise the file is <dir>/<name>.db.
func Path(cfg config.StoreConfig) string {
	if cfg.URL != "" && !strings.Contains(cfg.URL, "://") {
		return cfg.URL
	}
	name := cfg.Name
	if name == "" {
		name = "hms"
	}
	return filepath.Join(cfg.Dir, name+".db")
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time keeps SQLITE_BUSY out of the request path.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// NewStore opens the configured file and applies the record schema.
func NewStore(ctx context.Context, cfg config.StoreConfig, m *metrics.Metrics) (*sqlstore.Store, error) {
	db, err := Open(ctx, Path(cfg))
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
