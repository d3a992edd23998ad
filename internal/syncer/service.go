// Package syncer keeps the local mirror converged with the external
// library managers. All writes to library tables flow through here, either
// as targeted per-entity resyncs triggered by webhooks or as full-library
// reconciliations triggered by the schedule or a manual sync.
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/radarr"
	"github.com/showkeeper/showkeeper/internal/sonarr"
)

// Service coordinates the resync engines over multiple sources
type Service struct {
	store  *database.Store
	sonarr *sonarr.Client // nil if not configured
	radarr *radarr.Client // nil if not configured
	logger *slog.Logger

	pool  *Pool
	cron  *cron.Cron
	prune bool

	schedule string
}

// Config holds configuration for Service
type Config struct {
	Store    *database.Store
	Sonarr   *sonarr.Client // nil if not configured
	Radarr   *radarr.Client // nil if not configured
	Logger   *slog.Logger
	Workers  int    // background resync workers, default 4
	Schedule string // cron spec for periodic full resync, empty disables
	Prune    bool   // remove rows absent from a full listing
}

// NewService creates a new sync service
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	return &Service{
		store:    cfg.Store,
		sonarr:   cfg.Sonarr,
		radarr:   cfg.Radarr,
		logger:   cfg.Logger,
		pool:     NewPool(cfg.Workers, cfg.Logger),
		prune:    cfg.Prune,
		schedule: cfg.Schedule,
	}
}

// Start launches the worker pool and, when a schedule is configured, the
// periodic full resync.
func (s *Service) Start() error {
	s.pool.Start()

	if s.schedule == "" {
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		for _, source := range s.ConfiguredSources() {
			src := source
			s.Submit("scheduled_resync_"+src, func(ctx context.Context) error {
				return s.ResyncLibrary(ctx, src)
			})
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("periodic full resync scheduled", "spec", s.schedule)
	return nil
}

// Stop halts the schedule and drains the worker pool.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.pool.Stop()
}

// Submit hands a resync task to the background pool. The HTTP dispatcher
// must never block on fetches, so a full queue drops the task rather than
// stalling the caller; duplicate or dropped submissions are safe because
// every task body is idempotent.
func (s *Service) Submit(name string, fn func(ctx context.Context) error) bool {
	return s.pool.Submit(name, fn)
}

// ConfiguredSources lists the sources a full resync can target.
func (s *Service) ConfiguredSources() []string {
	var out []string
	if s.sonarr != nil {
		out = append(out, classify.SourceSonarr)
	}
	if s.radarr != nil {
		out = append(out, classify.SourceRadarr)
	}
	return out
}

// ResyncLibrary runs a full fetch-and-reconcile for one source. Safe to
// invoke repeatedly; also the entry point for manual "sync now" actions.
func (s *Service) ResyncLibrary(ctx context.Context, source string) error {
	switch source {
	case classify.SourceSonarr:
		return s.resyncSeriesLibrary(ctx)
	case classify.SourceRadarr:
		return s.resyncMovieLibrary(ctx)
	default:
		return fmt.Errorf("unknown source %q", source)
	}
}
