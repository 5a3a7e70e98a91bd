package flatmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMap creates a map directory with an index.mbtiles under root.
func writeMap(t *testing.T, root, id string, metadata map[string]string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeMBTiles(t, filepath.Join(dir, "index.mbtiles"), metadata, nil)
}

func TestCatalogMaps(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "heart-map", map[string]string{
		"source":    "https://example.org/heart.svg",
		"created":   "2023-05-01",
		"describes": "UBERON:0000948",
	})
	writeMap(t, root, "no-source", map[string]string{"created": "2023-05-01"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file"), []byte("x"), 0o644))

	c := NewCatalog(root, zerolog.Nop())
	maps, err := c.Maps()
	require.NoError(t, err)

	require.Len(t, maps, 1, "only directories with sourced tile sets are maps")
	assert.Equal(t, MapInfo{
		ID:        "heart-map",
		Source:    "https://example.org/heart.svg",
		Created:   "2023-05-01",
		Describes: "UBERON:948",
	}, maps[0])
}

func TestCatalogMapsMissingRoot(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	maps, err := c.Maps()
	require.NoError(t, err)
	assert.Empty(t, maps)
}

func TestCatalogMapPath(t *testing.T) {
	c := NewCatalog("/srv/flatmaps", zerolog.Nop())

	path, err := c.MapPath("heart-map")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/flatmaps", "heart-map"), path)

	for _, id := range []string{"", "..", "../other", "a/b", ".hidden"} {
		_, err := c.MapPath(id)
		assert.Error(t, err, "identifier %q must be rejected", id)
	}
}

func TestCatalogFilePath(t *testing.T) {
	c := NewCatalog("/srv/flatmaps", zerolog.Nop())

	path, err := c.FilePath("heart-map", "images", "background.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/flatmaps", "heart-map", "images", "background.png"), path)

	_, err = c.FilePath("heart-map", "../style.json")
	assert.Error(t, err)
	_, err = c.FilePath("heart-map", ".hidden")
	assert.Error(t, err)
}

func TestCatalogOpenMap(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "heart-map", map[string]string{"source": "s"})

	c := NewCatalog(root, zerolog.Nop())

	r, err := c.OpenMap("heart-map", "")
	require.NoError(t, err, "empty layer means the index tile set")
	require.NoError(t, r.Close())

	_, err = c.OpenMap("heart-map", "background")
	assert.Error(t, err, "no such raster layer")
	_, err = c.OpenMap("no-such-map", "")
	assert.Error(t, err)
}

func TestNormaliseIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"UBERON:0000948", "UBERON:948"},
		{"UBERON:948", "UBERON:948"},
		{"0000", "0"},
		{"0", "0"},
		{"ILX:0738324", "ILX:738324"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormaliseIdentifier(tt.in), "NormaliseIdentifier(%q)", tt.in)
	}
}
