package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/logging"
	"github.com/showkeeper/showkeeper/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [source]",
		Short: "Run a full library resync",
		Long: `Fetch the complete library listing from the named source and
reconcile the local mirror against it. With no source, every configured
source is resynced.

Examples:
  showkeeper sync            # Resync everything configured
  showkeeper sync sonarr     # Resync only the series library
  showkeeper sync radarr     # Resync only the movie library`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("unable to create logger: %w", err)
	}
	defer logCloser.Close()

	store, err := database.OpenPath(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer store.Close()

	syncSvc := syncer.NewService(syncer.Config{
		Store:  store,
		Sonarr: sonarrClient(cfg),
		Radarr: radarrClient(cfg),
		Logger: logger,
		Prune:  cfg.Sync.Prune,
	})

	sources := syncSvc.ConfiguredSources()
	if len(args) == 1 {
		sources = []string{args[0]}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sync sources configured; enable sonarr or radarr in the config")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, source := range sources {
		fmt.Printf("Resyncing %s...\n", source)
		if err := syncSvc.ResyncLibrary(ctx, source); err != nil {
			return fmt.Errorf("resyncing %s: %w", source, err)
		}

		if last, err := store.GetLastSyncForSource(source); err == nil && last != nil {
			fmt.Printf("  %d processed, %d added, %d updated, %d removed\n",
				last.ItemsProcessed, last.ItemsAdded, last.ItemsUpdated, last.ItemsRemoved)
		}
	}

	return nil
}
