package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "showkeeper",
		Short: "Library mirror and webhook companion for Sonarr, Radarr and Jellyfin",
		Long: `Showkeeper keeps a local metadata mirror of your Sonarr and Radarr
libraries, updated incrementally by their webhook connections instead of
by polling.

Features:
  - Webhook-driven targeted resync: one event, one fetch, one upsert
  - Scheduled full reconciliation as a safety net
  - Append-only webhook activity log for auditing sync gaps
  - JSON API over the mirrored library for dashboards`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/showkeeper/config.toml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("showkeeper %s\n", version)
		},
	}
}
