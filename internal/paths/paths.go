// Package paths resolves the configuration directory and the flatmap root.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative default for the flatmap root, matching the original
// deployment layout.
const DefaultFlatmapDirName = "flatmaps"

// Environment variable names for directory overrides.
const (
	EnvConfigDir   = "FLATMAP_CONFIG_DIR"
	EnvFlatmapRoot = "FLATMAP_ROOT"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/flatmap-server (fallback ~/.config/flatmap-server)
// macOS:   ~/Library/Application Support/flatmap-server
// Windows: %APPDATA%/flatmap-server
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "flatmap-server"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "flatmap-server"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "flatmap-server"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > FLATMAP_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveFlatmapRoot returns the flatmap root directory following the
// precedence chain: flag > config value > FLATMAP_ROOT env > the
// CWD-relative default ./flatmaps.
func ResolveFlatmapRoot(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvFlatmapRoot); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultFlatmapDirName), nil
}
