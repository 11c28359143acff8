// Package store persists per-guild configuration, linked panel accounts,
// server links, and the audit trail in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultBusyTimeout = 5 * time.Second

// Options describes parameters for opening the configuration store.
type Options struct {
	Path     string // Filesystem path of the SQLite database
	ReadOnly bool   // Open database in read-only mode
}

// Store provides access to the configuration database. A single Store is
// shared by all requests; every method acquires and releases its own
// connection from the pool.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// NotFoundError indicates a requested record does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// IsNotFound returns true when err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// isSQLiteUniqueViolation checks whether a database error is a UNIQUE
// constraint failure. Neither major Go SQLite driver exposes a typed error
// for constraint violations, so the message substring is the contract.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Open initialises the configuration store at the given path, applying
// pragmas and the schema. Writes are immediately durable: the database runs
// in WAL mode with synchronous=NORMAL and no deferred commit anywhere.
func Open(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("config: database path is required")
	}

	dsn := opts.Path
	if opts.ReadOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", opts.Path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("config: open sqlite store: %w", err)
	}

	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := applyPragmas(ctx, db, opts.ReadOnly); err != nil {
		db.Close()
		return nil, err
	}

	if !opts.ReadOnly {
		if err := applySchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db, path: opts.Path, readOnly: opts.ReadOnly}, nil
}

// Close finalises the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the filesystem path of the backing database.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureWritable(op string) error {
	if s.readOnly {
		return fmt.Errorf("config: %s: store is read-only", op)
	}
	return nil
}
