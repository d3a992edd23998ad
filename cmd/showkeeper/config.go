package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/showkeeper/showkeeper/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage showkeeper configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists() && !force {
				path, _ := config.ConfigPath()
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()

			secret, err := config.GenerateWebhookSecret()
			if err != nil {
				return err
			}
			cfg.Webhook.Secret = secret

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("unable to save config: %w", err)
			}

			path, _ := config.ConfigPath()
			fmt.Printf("Wrote %s\n", path)
			fmt.Println("\nConfigure this secret on every webhook connection:")
			fmt.Printf("  %s\n", secret)
			fmt.Println("\nSonarr/Radarr: Settings -> Connect -> Webhook ->")
			fmt.Println("  http://<showkeeper-host>:8787/api/v1/webhooks/<source>?secret=<secret>")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Print(cfg.ToTOML())
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
