// Package store implements the embedded SQLite annotation store: an
// append-only log of annotations plus versioned feature snapshots with
// single-current-winner semantics per (resource, item).
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dbrnz/flatmap-server/pkg/types"
)

// Compile-time interface check: Store must satisfy the public contract.
var _ types.Store = (*Store)(nil)

// Store is a handle on the annotation database. Handles are scoped per
// logical operation: open, use, close. SQLite serialises writers itself,
// so concurrent handles from parallel requests are safe.
type Store struct {
	db *sql.DB
}

// Open opens the annotation database at path, creating the annotation
// schema when it does not exist yet. The DDL runs unconditionally so two
// opens racing on an absent database cannot trip each other up.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening annotation store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating annotation schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle. Close is idempotent; operations on
// a closed store return ErrStoreClosed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("closing annotation store: %w", err)
	}
	return nil
}

func (s *Store) ready() error {
	if s.db == nil {
		return types.ErrStoreClosed
	}
	return nil
}
