package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/showkeeper/showkeeper/internal/api"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/logging"
	"github.com/showkeeper/showkeeper/internal/syncer"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook receiver and API server",
		Long: `Start the HTTP server: webhook endpoints for Sonarr, Radarr and
Jellyfin, plus the JSON API over the mirrored library.

Examples:
  showkeeper serve                  # Listen on the configured address
  showkeeper serve --addr :9000     # Override the listen address
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides config)")

	return cmd
}

func runServe(addr string) error {
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

	sonarrC := sonarrClient(cfg)
	radarrC := radarrClient(cfg)
	if sonarrC != nil {
		if err := sonarrC.Ping(); err != nil {
			logger.Warn("sonarr unreachable at startup", "error", err)
		}
	}
	if radarrC != nil {
		if err := radarrC.Ping(); err != nil {
			logger.Warn("radarr unreachable at startup", "error", err)
		}
	}

	syncSvc := syncer.NewService(syncer.Config{
		Store:    store,
		Sonarr:   sonarrC,
		Radarr:   radarrC,
		Logger:   logger,
		Workers:  cfg.Sync.Workers,
		Schedule: cfg.Sync.Schedule,
		Prune:    cfg.Sync.Prune,
	})
	if err := syncSvc.Start(); err != nil {
		return fmt.Errorf("unable to start sync service: %w", err)
	}

	server := api.NewServer(store, cfg, syncSvc, logger, version)

	if addr == "" {
		addr = cfg.Server.Addr()
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", addr,
			"sources", syncSvc.ConfiguredSources(),
			"database", store.Path())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
		syncSvc.Stop()
		return nil

	case err := <-errChan:
		syncSvc.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
