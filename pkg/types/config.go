package types

import (
	"errors"
	"path/filepath"
)

// Config holds the server parameters resolved from flags, config file, and
// environment.
type Config struct {
	// FlatmapRoot is the top-level directory containing one subdirectory
	// per flatmap, each holding an index.mbtiles and its sidecar files.
	FlatmapRoot string `json:"flatmap_root" yaml:"flatmap_root"`

	// AnnotationDB is the path of the annotation store database. Empty
	// means <FlatmapRoot>/annotation_store.db.
	AnnotationDB string `json:"annotation_db" yaml:"annotation_db"`

	// Host and Port are the HTTP listen address.
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// IdentityEndpoint is the URL of the external identity provider used
	// to resolve credential keys. Empty selects the built-in test user,
	// which is only suitable for local development.
	IdentityEndpoint string `json:"identity_endpoint" yaml:"identity_endpoint"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Defaults matching the original deployment.
const (
	DefaultHost = "localhost"
	DefaultPort = 4329
)

// Config validation errors.
var (
	ErrFlatmapRootEmpty = errors.New("flatmap root must not be empty")
	ErrPortInvalid      = errors.New("port must be between 1 and 65535")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.FlatmapRoot == "" {
		return ErrFlatmapRootEmpty
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrPortInvalid
	}
	return nil
}

// AnnotationDBPath returns the annotation store location, applying the
// default when AnnotationDB is unset.
func (c Config) AnnotationDBPath() string {
	if c.AnnotationDB != "" {
		return c.AnnotationDB
	}
	return filepath.Join(c.FlatmapRoot, "annotation_store.db")
}
