package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Teslasoft.Endpoint)
	assert.False(t, cfg.Teslasoft.Strict)
	assert.Equal(t, time.Duration(0), cfg.Teslasoft.Timeout)
	assert.Equal(t, DefaultCoreTimeout, cfg.Core.Timeout)
	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t,
		"com.teslasoft.libraries.support/org.teslasoft.core.api.account.AccountPickerActivity",
		cfg.Core.Component())
	assert.NotEmpty(t, cfg.Storage.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")

	content := `
teslasoft:
  endpoint: http://localhost:8080
  strict: true
  timeout: 3s
core:
  executable: /opt/core/bin/picker
app:
  api_key: key-from-file
  app_id: org.example.app
storage:
  path: ` + dir + `
sync:
  interval: 1m
logging:
  level: warn
  format: json
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	t.Setenv("TESLASOFT_API_KEY", "key-from-env")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.GetEndpoint())
	assert.True(t, cfg.Teslasoft.Strict)
	assert.Equal(t, 3*time.Second, cfg.Teslasoft.Timeout)
	assert.Equal(t, "/opt/core/bin/picker", cfg.Core.Executable)
	assert.Equal(t, DefaultCorePackage, cfg.Core.Package)
	assert.Equal(t, "key-from-env", cfg.App.APIKey)
	assert.Equal(t, "org.example.app", cfg.App.AppID)
	assert.True(t, cfg.HasAppCredentials())
	assert.Equal(t, dir, cfg.GetStoragePath())
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad endpoint", mutate: func(c *Config) { c.Teslasoft.Endpoint = "not a url" }},
		{name: "no executable", mutate: func(c *Config) { c.Core.Executable = "" }},
		{name: "no storage", mutate: func(c *Config) { c.Storage.Path = "" }},
		{name: "zero interval", mutate: func(c *Config) { c.Sync.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DefaultConfig()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
