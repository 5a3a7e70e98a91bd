// Package flatmap reads pre-built flatmap tile sets: mbtiles databases and
// their sidecar JSON files, laid out one directory per map under a common
// root.
package flatmap

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"
)

// ErrTileNotFound reports a tile absent from the tile database.
var ErrTileNotFound = errors.New("tile not found")

// Reader reads tiles and metadata from a single mbtiles database. Readers
// are cheap and scoped like store handles: open, use, close.
type Reader struct {
	db *sql.DB
}

// OpenReader opens the mbtiles database at path. A missing file is an
// error; mbtiles are built offline and never created by the server.
func OpenReader(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening tile database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening tile database: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the tile database handle.
func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Metadata returns the raw value of a metadata row, or "" when absent.
func (r *Reader) Metadata(name string) (string, error) {
	var value string
	err := r.db.QueryRow(`select value from metadata where name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading tile metadata %q: %w", name, err)
	}
	return value, nil
}

// MetadataJSON decodes a metadata value as JSON. An absent row decodes to
// an empty object, matching what callers serve for maps without the entry.
func (r *Reader) MetadataJSON(name string) (any, error) {
	value, err := r.Metadata(name)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return map[string]any{}, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, fmt.Errorf("decoding tile metadata %q: %w", name, err)
	}
	return decoded, nil
}

// Tile returns the raw tile bytes at the given XYZ coordinates. The row
// axis is flipped to the TMS scheme mbtiles stores internally.
func (r *Reader) Tile(zoom, x, y int) ([]byte, error) {
	row := (1 << zoom) - 1 - y
	var data []byte
	err := r.db.QueryRow(
		`select tile_data from tiles where zoom_level = ? and tile_column = ? and tile_row = ?`,
		zoom, x, row,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrTileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading tile %d/%d/%d: %w", zoom, x, y, err)
	}
	return data, nil
}

// VectorTile returns tile bytes with gzip encoding removed when the tile
// set's "compressed" metadata flag is set.
func (r *Reader) VectorTile(zoom, x, y int) ([]byte, error) {
	data, err := r.Tile(zoom, x, y)
	if err != nil {
		return nil, err
	}
	compressed, err := r.MetadataJSON("compressed")
	if err != nil {
		return nil, err
	}
	if truthy(compressed) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decompressing tile %d/%d/%d: %w", zoom, x, y, err)
		}
		defer gz.Close()
		if data, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("decompressing tile %d/%d/%d: %w", zoom, x, y, err)
		}
	}
	return data, nil
}

// truthy mirrors the loose JSON truth test used by the tile pipeline's
// metadata values ("true", 1, non-empty).
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "false" && t != "0"
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return false
	}
}
