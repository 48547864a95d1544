// Package duckdb keeps the dashboard records in DuckDB and serves them to
// the HTTP API and the socket RPC server.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/admindash/internal/duckdb/migrate"
	"github.com/tinytelemetry/admindash/internal/model"
)

// Store manages the DuckDB connection.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	dbPath       string
	log          zerolog.Logger
	QueryTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithQueryTimeout bounds every query. Non-positive values are ignored.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.QueryTimeout = d
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore opens or creates a DuckDB database and applies migrations. An
// empty dbPath opens an in-memory database.
func NewStore(dbPath string, opts ...Option) (*Store, error) {
	s := &Store{
		dbPath:       dbPath,
		log:          zerolog.Nop(),
		QueryTimeout: model.DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := migrate.NewRunner(db).WithLogger(s.log).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.db = db

	where := dbPath
	if where == "" {
		where = ":memory:"
	}
	s.log.Debug().Str("path", where).Msg("duckdb store opened")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path is the database file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.dbPath
}

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}
