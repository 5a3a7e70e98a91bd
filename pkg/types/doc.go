// Package types defines the annotation data model, configuration, and
// standard errors shared by the flatmap server's storage and serving layers.
package types
