package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{FlatmapRoot: "/srv/flatmaps", Port: DefaultPort}
	assert.NoError(t, valid.Validate())

	t.Run("rejects empty flatmap root", func(t *testing.T) {
		cfg := valid
		cfg.FlatmapRoot = ""
		assert.ErrorIs(t, cfg.Validate(), ErrFlatmapRootEmpty)
	})

	t.Run("rejects out-of-range port", func(t *testing.T) {
		for _, port := range []int{0, -1, 70000} {
			cfg := valid
			cfg.Port = port
			assert.ErrorIs(t, cfg.Validate(), ErrPortInvalid)
		}
	})
}

func TestConfigAnnotationDBPath(t *testing.T) {
	cfg := Config{FlatmapRoot: "/srv/flatmaps"}
	assert.Equal(t, filepath.Join("/srv/flatmaps", "annotation_store.db"), cfg.AnnotationDBPath())

	cfg.AnnotationDB = "/var/db/annotations.db"
	assert.Equal(t, "/var/db/annotations.db", cfg.AnnotationDBPath())
}
