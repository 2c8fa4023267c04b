package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotInitialized is returned when the schema has not been created yet.
	ErrNotInitialized = errors.New("database not initialized; run 'lexcov import' first")

	// ErrWordListNotFound is returned when no word list has the requested name.
	ErrWordListNotFound = errors.New("word list not found")

	// ErrSnapshotNotFound is returned when no snapshot has the requested ID.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Store provides SQLite database operations for lexcov.
type Store struct {
	db *sql.DB
}

// pragmas are applied to every new connection in order.
var pragmas = []struct{ name, value string }{
	{"foreign_keys", "ON"},
	{"journal_mode", "WAL"},
	// watch may write while another lexcov process reads.
	{"busy_timeout", "5000"},
}

// New opens the SQLite database at dbPath. ":memory:" gives a private
// in-memory database, which tests use.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only allows one writer at a time; a single connection also keeps
	// ":memory:" databases alive for the lifetime of the Store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %s: %w", p.name, err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the connection. It is safe on a nil Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateSchema creates any missing tables and indexes.
func (s *Store) CreateSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// wrapErr maps a missing-table error onto ErrNotInitialized.
func wrapErr(op string, err error) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return fmt.Errorf("%s: %w", op, err)
}
