package config

import (
	"fmt"
	"time"
)

const (
	DefaultEndpoint          = "https://id.teslasoft.org"
	DefaultCorePackage       = "com.teslasoft.libraries.support"
	DefaultCoreActivity      = "org.teslasoft.core.api.account.AccountPickerActivity"
	DefaultCoreExecutable    = "teslasoft-core"
	DefaultCoreTimeout       = 5 * time.Minute
	DefaultSyncInterval      = 15 * time.Minute
	DefaultStorageFolderName = "teslasoft"
)

// Config represents the application configuration structure
type Config struct {
	Teslasoft TeslasoftConfig `mapstructure:"teslasoft"` // Remote ID service
	Core      CoreConfig      `mapstructure:"core"`      // External authenticator
	App       AppConfig       `mapstructure:"app"`       // Host application identity
	Storage   StorageConfig   `mapstructure:"storage"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type TeslasoftConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// Strict rejects account payloads with missing fields instead of
	// rendering them as "null".
	Strict bool `mapstructure:"strict"`
	// Zero keeps the HTTP client default.
	Timeout time.Duration `mapstructure:"timeout"`
}

type CoreConfig struct {
	Executable string        `mapstructure:"executable"`
	Package    string        `mapstructure:"package"`
	Activity   string        `mapstructure:"activity"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Component is the package/activity identity handed to the authenticator.
func (c CoreConfig) Component() string {
	return fmt.Sprintf("%s/%s", c.Package, c.Activity)
}

type AppConfig struct {
	APIKey string `mapstructure:"api_key"`
	AppID  string `mapstructure:"app_id"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"text"`
}

func (c *Config) GetEndpoint() string {
	return c.Teslasoft.Endpoint
}

func (c *Config) GetStoragePath() string {
	return c.Storage.Path
}

func (c *Config) HasAppCredentials() bool {
	return len(c.App.APIKey) > 0 && len(c.App.AppID) > 0
}
