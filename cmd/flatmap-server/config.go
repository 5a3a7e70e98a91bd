// Config loading for the flatmap-server CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dbrnz/flatmap-server/internal/paths"
	"github.com/dbrnz/flatmap-server/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyFlatmapRoot      = "flatmap_root"
	cfgKeyAnnotationDB     = "annotation_db"
	cfgKeyHost             = "host"
	cfgKeyPort             = "port"
	cfgKeyIdentityEndpoint = "identity_endpoint"
	cfgKeyLogLevel         = "log_level"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# flatmap-server configuration

# Top-level directory containing flatmaps (overridable by --map-dir)
# flatmap_root:

# Annotation store database (default: <flatmap_root>/annotation_store.db)
# annotation_db:

# HTTP listen address
host: localhost
port: 4329

# External identity provider; unset selects the built-in test user
# (local development only)
# identity_endpoint:

log_level: info
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileName+"."+configFileType)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetDefault(cfgKeyHost, types.DefaultHost)
	v.SetDefault(cfgKeyPort, types.DefaultPort)
	v.SetDefault(cfgKeyLogLevel, "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// buildConfig resolves the effective server configuration from flags,
// config file, and environment.
func buildConfig() (types.Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return types.Config{}, err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	root, err := paths.ResolveFlatmapRoot(flagFlatmapRoot, v.GetString(cfgKeyFlatmapRoot))
	if err != nil {
		return types.Config{}, err
	}

	cfg := types.Config{
		FlatmapRoot:      root,
		AnnotationDB:     v.GetString(cfgKeyAnnotationDB),
		Host:             v.GetString(cfgKeyHost),
		Port:             v.GetInt(cfgKeyPort),
		IdentityEndpoint: v.GetString(cfgKeyIdentityEndpoint),
		LogLevel:         v.GetString(cfgKeyLogLevel),
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
