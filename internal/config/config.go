// Package config loads and persists showkeeper's configuration. The
// canonical file is ~/.config/showkeeper/config.toml; everything has a
// working default so the server starts with no file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/showkeeper/showkeeper/internal/paths"
)

// Config is the full showkeeper configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Sonarr   SonarrConfig   `mapstructure:"sonarr"`
	Radarr   RadarrConfig   `mapstructure:"radarr"`
	Jellyfin JellyfinConfig `mapstructure:"jellyfin"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address in host:port form
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains the mirror database location
type DatabaseConfig struct {
	// Path to the SQLite file. Empty means ~/.config/showkeeper/showkeeper.db
	Path string `mapstructure:"path"`
}

// SonarrConfig contains Sonarr integration settings
type SonarrConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// RadarrConfig contains Radarr integration settings
type RadarrConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// JellyfinConfig covers the media server webhook. Jellyfin events are
// recorded in the activity log but never drive a resync.
type JellyfinConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// WebhookConfig protects the inbound webhook endpoints
type WebhookConfig struct {
	// Secret required on every webhook call, via the X-Showkeeper-Webhook-Secret
	// header or a ?secret= query parameter. Empty disables the check.
	Secret string `mapstructure:"secret"`
}

// SyncConfig tunes the resync engines
type SyncConfig struct {
	// Schedule is a cron spec for the periodic full resync. Empty disables it.
	Schedule string `mapstructure:"schedule"`
	// Workers bounds concurrent background resyncs.
	Workers int `mapstructure:"workers"`
	// Prune removes mirror rows absent from a full listing. Off by default:
	// a stale row is recoverable, a pruned one is not.
	Prune               bool `mapstructure:"prune"`
	FetchTimeoutSeconds int  `mapstructure:"fetch_timeout_seconds"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8787,
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Sonarr: SonarrConfig{
			Enabled:        false,
			URL:            "",
			APIKey:         "",
			TimeoutSeconds: 30,
		},
		Radarr: RadarrConfig{
			Enabled:        false,
			URL:            "",
			APIKey:         "",
			TimeoutSeconds: 30,
		},
		Jellyfin: JellyfinConfig{
			Enabled: false,
		},
		Webhook: WebhookConfig{
			Secret: "",
		},
		Sync: SyncConfig{
			Schedule:            "0 3 * * *",
			Workers:             4,
			Prune:               false,
			FetchTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Load loads configuration from the canonical path or returns defaults
func Load() (*Config, error) {
	configPath, err := paths.ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from an explicit file path. A missing file
// is not an error; defaults apply.
func LoadFrom(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Sonarr.Enabled {
		if strings.TrimSpace(c.Sonarr.URL) == "" {
			return fmt.Errorf("sonarr enabled but url is empty")
		}
		if strings.TrimSpace(c.Sonarr.APIKey) == "" {
			return fmt.Errorf("sonarr enabled but api_key is empty")
		}
	}
	if c.Radarr.Enabled {
		if strings.TrimSpace(c.Radarr.URL) == "" {
			return fmt.Errorf("radarr enabled but url is empty")
		}
		if strings.TrimSpace(c.Radarr.APIKey) == "" {
			return fmt.Errorf("radarr enabled but api_key is empty")
		}
	}
	if c.Sync.Workers < 0 {
		return fmt.Errorf("sync workers must not be negative")
	}
	return nil
}

// DatabasePath resolves the mirror database location
func (c *Config) DatabasePath() string {
	if strings.TrimSpace(c.Database.Path) != "" {
		return c.Database.Path
	}
	dbPath, err := paths.DatabasePath()
	if err != nil {
		return "./showkeeper.db"
	}
	return dbPath
}

// Save saves configuration to the canonical path
func (c *Config) Save() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("unable to create config dir: %w", err)
	}

	return os.WriteFile(configFile, []byte(c.ToTOML()), 0644)
}

func ConfigPath() (string, error) {
	return paths.ConfigPath()
}

func ConfigExists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (c *Config) ToTOML() string {
	return fmt.Sprintf(`# Showkeeper Configuration
# Generated by: showkeeper config init

# ============================================================================
# HTTP SERVER
# ============================================================================
[server]
host = "%s"
port = %d

# ============================================================================
# DATABASE
# Empty path means ~/.config/showkeeper/showkeeper.db
# ============================================================================
[database]
path = "%s"

# ============================================================================
# SONARR (TV Shows)
# Get API key from: Sonarr -> Settings -> General -> API Key
# ============================================================================
[sonarr]
enabled = %v
url = "%s"
api_key = "%s"
timeout_seconds = %d

# ============================================================================
# RADARR (Movies)
# Get API key from: Radarr -> Settings -> General -> API Key
# ============================================================================
[radarr]
enabled = %v
url = "%s"
api_key = "%s"
timeout_seconds = %d

# ============================================================================
# JELLYFIN
# Media server events are logged for visibility only
# ============================================================================
[jellyfin]
enabled = %v

# ============================================================================
# WEBHOOK SECURITY
# Shared secret required on inbound webhooks; empty disables the check
# ============================================================================
[webhook]
secret = "%s"

# ============================================================================
# SYNC
# schedule is a cron spec for the periodic full resync; empty disables it
# ============================================================================
[sync]
schedule = "%s"
workers = %d
prune = %v
fetch_timeout_seconds = %d

# ============================================================================
# LOGGING
# ============================================================================
[logging]
level = "%s"
file = "%s"
max_size_mb = %d
max_backups = %d
`,
		c.Server.Host,
		c.Server.Port,
		c.Database.Path,
		c.Sonarr.Enabled,
		c.Sonarr.URL,
		c.Sonarr.APIKey,
		c.Sonarr.TimeoutSeconds,
		c.Radarr.Enabled,
		c.Radarr.URL,
		c.Radarr.APIKey,
		c.Radarr.TimeoutSeconds,
		c.Jellyfin.Enabled,
		c.Webhook.Secret,
		c.Sync.Schedule,
		c.Sync.Workers,
		c.Sync.Prune,
		c.Sync.FetchTimeoutSeconds,
		c.Logging.Level,
		c.Logging.File,
		c.Logging.MaxSizeMB,
		c.Logging.MaxBackups,
	)
}
