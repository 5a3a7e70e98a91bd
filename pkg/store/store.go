// Package store provides the public factory for the SQLite annotation
// store while keeping the implementation internal.
package store

import (
	"github.com/dbrnz/flatmap-server/internal/store"
	"github.com/dbrnz/flatmap-server/pkg/types"
)

// Open opens the annotation database at path, creating it with the
// annotation schema when no database exists yet.
//
// Example:
//
//	st, err := store.Open(filepath.Join(root, "annotation_store.db"))
//	if err != nil { ... }
//	defer st.Close()
func Open(path string) (types.Store, error) {
	return store.Open(path)
}
