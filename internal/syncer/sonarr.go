package syncer

import (
	"context"
	"fmt"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/sonarr"
)

func seriesRecord(show *sonarr.Series) *database.Series {
	record := &database.Series{
		ExternalID: show.ID,
		Title:      show.Title,
		Year:       show.Year,
		Overview:   show.Overview,
		Network:    show.Network,
		Status:     show.Status,
		PosterURL:  show.Poster(),
		Path:       show.Path,
		Monitored:  show.Monitored,
	}

	if show.TvdbID != 0 {
		tvdb := show.TvdbID
		record.TvdbID = &tvdb
	}
	if show.ImdbID != "" {
		imdb := show.ImdbID
		record.ImdbID = &imdb
	}
	if show.Statistics != nil {
		record.EpisodeFileCount = show.Statistics.EpisodeFileCount
	}

	return record
}

func episodeRecord(ep *sonarr.Episode) *database.Episode {
	return &database.Episode{
		ExternalID: ep.ID,
		SeriesID:   ep.SeriesID,
		Season:     ep.SeasonNumber,
		Episode:    ep.EpisodeNumber,
		Title:      ep.Title,
		AirDate:    ep.AirDate,
		Overview:   ep.Overview,
		HasFile:    ep.HasFile,
		Monitored:  ep.Monitored,
	}
}

// ResyncSeries fetches one series and its episodes and upserts them.
// Every fetch completes before the first write, so a transient failure
// leaves existing rows untouched.
func (s *Service) ResyncSeries(ctx context.Context, seriesID int) error {
	if s.sonarr == nil {
		return fmt.Errorf("sonarr not configured")
	}

	s.logger.Info("targeted resync", "source", "sonarr", "series_id", seriesID)

	show, err := s.sonarr.GetSeries(seriesID)
	if err != nil {
		return fmt.Errorf("fetching series %d: %w", seriesID, err)
	}
	episodes, err := s.sonarr.GetEpisodes(seriesID)
	if err != nil {
		return fmt.Errorf("fetching episodes for series %d: %w", seriesID, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.UpsertSeries(seriesRecord(show)); err != nil {
		return fmt.Errorf("upserting series %d: %w", seriesID, err)
	}
	for i := range episodes {
		if _, err := s.store.UpsertEpisode(episodeRecord(&episodes[i])); err != nil {
			return fmt.Errorf("upserting episode %d: %w", episodes[i].ID, err)
		}
	}

	return nil
}

// ResyncEpisode fetches one episode and upserts it, refreshing the parent
// series row alongside so file counts stay current.
func (s *Service) ResyncEpisode(ctx context.Context, episodeID int) error {
	if s.sonarr == nil {
		return fmt.Errorf("sonarr not configured")
	}

	s.logger.Info("targeted resync", "source", "sonarr", "episode_id", episodeID)

	ep, err := s.sonarr.GetEpisode(episodeID)
	if err != nil {
		return fmt.Errorf("fetching episode %d: %w", episodeID, err)
	}
	show, err := s.sonarr.GetSeries(ep.SeriesID)
	if err != nil {
		return fmt.Errorf("fetching series %d: %w", ep.SeriesID, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.UpsertSeries(seriesRecord(show)); err != nil {
		return fmt.Errorf("upserting series %d: %w", ep.SeriesID, err)
	}
	if _, err := s.store.UpsertEpisode(episodeRecord(ep)); err != nil {
		return fmt.Errorf("upserting episode %d: %w", episodeID, err)
	}

	return nil
}

// DeleteSeries removes a series and its episodes from the mirror. Only an
// explicit deletion event reaches here; fetch failures never delete.
func (s *Service) DeleteSeries(ctx context.Context, seriesID int) error {
	removed, err := s.store.DeleteSeriesByExternalID(seriesID)
	if err != nil {
		return fmt.Errorf("deleting series %d: %w", seriesID, err)
	}
	s.logger.Info("series removed from mirror", "series_id", seriesID, "rows", removed)
	return nil
}

// DeleteEpisode removes a single episode row from the mirror.
func (s *Service) DeleteEpisode(ctx context.Context, episodeID int) error {
	removed, err := s.store.DeleteEpisodeByExternalID(episodeID)
	if err != nil {
		return fmt.Errorf("deleting episode %d: %w", episodeID, err)
	}
	s.logger.Info("episode removed from mirror", "episode_id", episodeID, "rows", removed)
	return nil
}

// resyncSeriesLibrary reconciles the whole series table against Sonarr's
// listing. The listing fetch completes before anything is committed; a
// partial fetch aborts with the mirror unchanged.
func (s *Service) resyncSeriesLibrary(ctx context.Context) error {
	if s.sonarr == nil {
		return fmt.Errorf("sonarr not configured")
	}

	s.logger.Info("full resync starting", "source", "sonarr")

	logID, err := s.store.StartSyncLog(classify.SourceSonarr)
	if err != nil {
		return err
	}

	listing, err := s.sonarr.GetAllSeries()
	if err != nil {
		s.store.CompleteSyncLog(logID, "failed", 0, 0, 0, 0, err.Error())
		return fmt.Errorf("fetching series listing: %w", err)
	}

	if err := ctx.Err(); err != nil {
		s.store.CompleteSyncLog(logID, "failed", 0, 0, 0, 0, "context cancelled")
		return err
	}

	records := make([]*database.Series, 0, len(listing))
	for i := range listing {
		records = append(records, seriesRecord(&listing[i]))
	}

	added, updated, removed, err := s.store.ReconcileSeries(records, s.prune)
	if err != nil {
		s.store.CompleteSyncLog(logID, "failed", len(records), 0, 0, 0, err.Error())
		return fmt.Errorf("reconciling series: %w", err)
	}

	s.store.CompleteSyncLog(logID, "success", len(records), added, updated, removed, "")
	s.logger.Info("full resync completed", "source", "sonarr",
		"processed", len(records), "added", added, "updated", updated, "removed", removed)

	return nil
}
