package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/flatmap-server", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "flatmap-server"), got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("/tmp/flag-config")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/flag-config", got)
	})

	t.Run("environment wins over default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env-config", got)
	})
}

func TestResolveFlatmapRoot(t *testing.T) {
	t.Run("flag wins over config and environment", func(t *testing.T) {
		t.Setenv(EnvFlatmapRoot, "/tmp/env-maps")
		got, err := ResolveFlatmapRoot("/tmp/flag-maps", "/tmp/config-maps")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/flag-maps", got)
	})

	t.Run("config wins over environment", func(t *testing.T) {
		t.Setenv(EnvFlatmapRoot, "/tmp/env-maps")
		got, err := ResolveFlatmapRoot("", "/tmp/config-maps")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/config-maps", got)
	})

	t.Run("environment wins over default", func(t *testing.T) {
		t.Setenv(EnvFlatmapRoot, "/tmp/env-maps")
		got, err := ResolveFlatmapRoot("", "")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env-maps", got)
	})

	t.Run("defaults to CWD-relative flatmaps", func(t *testing.T) {
		t.Setenv(EnvFlatmapRoot, "")
		cwd, err := os.Getwd()
		require.NoError(t, err)

		got, err := ResolveFlatmapRoot("", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, DefaultFlatmapDirName), got)
	})
}
