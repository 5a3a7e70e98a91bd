package flatmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// MapInfo describes one servable flatmap found under the root directory.
type MapInfo struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Created   string `json:"created,omitempty"`
	Describes string `json:"describes,omitempty"`
}

// Catalog enumerates the flatmaps under a root directory and resolves
// per-map file paths.
type Catalog struct {
	root string
	log  zerolog.Logger
}

// NewCatalog returns a catalog over root.
func NewCatalog(root string, log zerolog.Logger) *Catalog {
	return &Catalog{root: root, log: log.With().Str("component", "flatmap").Logger()}
}

// Root returns the flatmap root directory.
func (c *Catalog) Root() string {
	return c.root
}

// Maps lists every map directory holding an index.mbtiles with a source
// metadata entry. Unreadable tile databases are logged and skipped rather
// than failing the whole listing.
func (c *Catalog) Maps() ([]MapInfo, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []MapInfo{}, nil
		}
		return nil, fmt.Errorf("reading flatmap root: %w", err)
	}

	maps := []MapInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, ok := c.describeMap(entry.Name())
		if ok {
			maps = append(maps, info)
		}
	}
	return maps, nil
}

func (c *Catalog) describeMap(id string) (MapInfo, bool) {
	mbtiles := filepath.Join(c.root, id, "index.mbtiles")
	reader, err := OpenReader(mbtiles)
	if err != nil {
		return MapInfo{}, false
	}
	defer reader.Close()

	source, err := reader.Metadata("source")
	if err != nil || source == "" {
		if err != nil {
			c.log.Warn().Err(err).Str("map", id).Msg("unreadable tile database")
		}
		return MapInfo{}, false
	}

	info := MapInfo{ID: id, Source: source}
	if created, err := reader.Metadata("created"); err == nil {
		info.Created = created
	}
	if describes, err := reader.Metadata("describes"); err == nil && describes != "" {
		info.Describes = NormaliseIdentifier(describes)
	}
	return info, true
}

// MapPath returns the directory of a map, rejecting identifiers that try
// to escape the root.
func (c *Catalog) MapPath(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid map identifier %q", id)
	}
	return filepath.Join(c.root, id), nil
}

// FilePath returns the path of a sidecar file inside a map directory.
func (c *Catalog) FilePath(id string, name ...string) (string, error) {
	dir, err := c.MapPath(id)
	if err != nil {
		return "", err
	}
	for _, n := range name {
		if n != filepath.Base(n) || strings.HasPrefix(n, ".") {
			return "", fmt.Errorf("invalid file name %q", n)
		}
	}
	return filepath.Join(append([]string{dir}, name...)...), nil
}

// OpenMap opens a map's tile database, index.mbtiles by default or
// <layer>.mbtiles for raster layers.
func (c *Catalog) OpenMap(id, layer string) (*Reader, error) {
	if layer == "" {
		layer = "index"
	}
	path, err := c.FilePath(id, layer+".mbtiles")
	if err != nil {
		return nil, err
	}
	return OpenReader(path)
}

// NormaliseIdentifier strips leading zeros from each numeric run of a
// colon-separated identifier while keeping at least one character, so
// "UBERON:0000948" becomes "UBERON:948".
func NormaliseIdentifier(id string) string {
	parts := strings.Split(id, ":")
	for i, part := range parts {
		if len(part) > 1 {
			parts[i] = strings.TrimLeft(part[:len(part)-1], "0") + part[len(part)-1:]
		}
	}
	return strings.Join(parts, ":")
}
