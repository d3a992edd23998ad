package main

import (
	"fmt"
	"time"

	"github.com/showkeeper/showkeeper/internal/config"
	"github.com/showkeeper/showkeeper/internal/radarr"
	"github.com/showkeeper/showkeeper/internal/sonarr"
)

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.LoadFrom(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load config %s: %w", cfgFile, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	return cfg, nil
}

func sonarrClient(cfg *config.Config) *sonarr.Client {
	if !cfg.Sonarr.Enabled {
		return nil
	}
	return sonarr.NewClient(sonarr.Config{
		URL:     cfg.Sonarr.URL,
		APIKey:  cfg.Sonarr.APIKey,
		Timeout: fetchTimeout(cfg.Sonarr.TimeoutSeconds, cfg),
	})
}

func radarrClient(cfg *config.Config) *radarr.Client {
	if !cfg.Radarr.Enabled {
		return nil
	}
	return radarr.NewClient(radarr.Config{
		URL:     cfg.Radarr.URL,
		APIKey:  cfg.Radarr.APIKey,
		Timeout: fetchTimeout(cfg.Radarr.TimeoutSeconds, cfg),
	})
}

// fetchTimeout resolves a per-source timeout, falling back to the sync
// section's fetch_timeout_seconds.
func fetchTimeout(seconds int, cfg *config.Config) time.Duration {
	if seconds <= 0 {
		seconds = cfg.Sync.FetchTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}
