package types

import (
	"errors"
	"strings"
)

// Config holds backend selection and parameters for storage.Open.
type Config struct {
	Backend  string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	FileName string `json:"file_name" yaml:"file_name" mapstructure:"file_name"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// DefaultFileName is the JSON document written by the json backend.
const DefaultFileName = "file.json"

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrInvalidFileName = errors.New("file name must not contain a path separator")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
	BackendBadger: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if strings.ContainsAny(c.FileName, `/\`) {
		return ErrInvalidFileName
	}
	return nil
}

// DataFile returns the configured file name, falling back to DefaultFileName.
func (c Config) DataFile() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}
