// Package config provides public SDK access to the Teslasoft ID configuration.
// These types are re-exported from the internal config package to provide
// a stable public API for external consumers.
package config

import (
	internal "github.com/teslasoft/id-agent/internal/config"
)

// Config holds the ID service endpoint, the core authenticator command,
// the host app credentials and where sessions are stored.
type Config = internal.Config

type TeslasoftConfig = internal.TeslasoftConfig

type CoreConfig = internal.CoreConfig

type AppConfig = internal.AppConfig

type StorageConfig = internal.StorageConfig

type SyncConfig = internal.SyncConfig

// Load reads the config file (or the default search paths when empty),
// applies TESLASOFT_ environment overrides and validates the result.
func Load(configFile string) (*Config, error) {
	return internal.Load(configFile)
}

// DefaultConfig returns the built-in defaults without reading any file.
func DefaultConfig() (*Config, error) {
	return internal.DefaultConfig()
}
