package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8787, cfg.Server.Port)
	assert.False(t, cfg.Sonarr.Enabled)
	assert.False(t, cfg.Radarr.Enabled)
	assert.False(t, cfg.Sync.Prune, "prune defaults to off")
	assert.NotEmpty(t, cfg.Sync.Schedule, "expected a default sync schedule")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9000

[sonarr]
enabled = true
url = "http://sonarr:8989"
api_key = "abc123"

[sync]
schedule = ""
workers = 2
prune = true

[webhook]
secret = "hunter2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Sonarr.Enabled)
	assert.Equal(t, "http://sonarr:8989", cfg.Sonarr.URL)
	assert.Equal(t, "", cfg.Sync.Schedule)
	assert.Equal(t, 2, cfg.Sync.Workers)
	assert.True(t, cfg.Sync.Prune)
	assert.Equal(t, "hunter2", cfg.Webhook.Secret)
	// Untouched sections keep defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateRejectsEnabledWithoutCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sonarr.Enabled = true
	assert.Error(t, cfg.Validate(), "sonarr enabled without url/api_key")

	cfg = DefaultConfig()
	cfg.Radarr.Enabled = true
	cfg.Radarr.URL = "http://radarr:7878"
	assert.Error(t, cfg.Validate(), "radarr enabled without api_key")
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestToTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 9123
	cfg.Sonarr.Enabled = true
	cfg.Sonarr.URL = "http://sonarr:8989"
	cfg.Sonarr.APIKey = "abc123"
	cfg.Webhook.Secret = "s3cret"

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg.ToTOML()), 0644))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9123, loaded.Server.Port)
	assert.Equal(t, "abc123", loaded.Sonarr.APIKey)
	assert.Equal(t, "s3cret", loaded.Webhook.Secret)
}

func TestDatabasePathOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Path = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.DatabasePath())

	cfg.Database.Path = ""
	assert.NotEmpty(t, cfg.DatabasePath())
}
