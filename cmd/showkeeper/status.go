package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/showkeeper/showkeeper/internal/database"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show mirror contents and recent sync activity",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := database.OpenPath(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer store.Close()

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("unable to read stats: %w", err)
	}

	fmt.Printf("Database: %s\n\n", store.Path())

	fmt.Println("Upstreams:")
	if c := sonarrClient(cfg); c != nil {
		if st, err := c.GetSystemStatus(); err != nil {
			fmt.Printf("  Sonarr:   unreachable (%v)\n", err)
		} else {
			fmt.Printf("  Sonarr:   ok (v%s)\n", st.Version)
		}
	} else {
		fmt.Println("  Sonarr:   disabled")
	}
	if c := radarrClient(cfg); c != nil {
		if st, err := c.GetSystemStatus(); err != nil {
			fmt.Printf("  Radarr:   unreachable (%v)\n", err)
		} else {
			fmt.Printf("  Radarr:   ok (v%s)\n", st.Version)
		}
	} else {
		fmt.Println("  Radarr:   disabled")
	}

	fmt.Println("\nLibrary mirror:")
	fmt.Printf("  Series:   %d\n", stats.SeriesCount)
	fmt.Printf("  Episodes: %d\n", stats.EpisodeCount)
	fmt.Printf("  Movies:   %d\n", stats.MovieCount)

	if len(stats.WebhookEvents) > 0 {
		fmt.Println("\nWebhook events by outcome:")
		for outcome, count := range stats.WebhookEvents {
			fmt.Printf("  %-16s %d\n", outcome, count)
		}
	}

	logs, err := store.GetRecentSyncLogs(5)
	if err != nil {
		return fmt.Errorf("unable to read sync history: %w", err)
	}
	if len(logs) > 0 {
		fmt.Println("\nRecent full resyncs:")
		for _, l := range logs {
			line := fmt.Sprintf("  %s  %-7s %-8s %d processed",
				l.StartedAt.Format("2006-01-02 15:04:05"), l.Source, l.Status, l.ItemsProcessed)
			if l.ErrorMessage != "" {
				line += "  (" + l.ErrorMessage + ")"
			}
			fmt.Println(line)
		}
	}

	return nil
}
