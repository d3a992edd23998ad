package syncer

import (
	"context"
	"fmt"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/radarr"
)

func movieRecord(movie *radarr.Movie) *database.Movie {
	record := &database.Movie{
		ExternalID: movie.ID,
		Title:      movie.Title,
		Year:       movie.Year,
		Overview:   movie.Overview,
		Studio:     movie.Studio,
		Status:     movie.Status,
		PosterURL:  movie.Poster(),
		Path:       movie.Path,
		HasFile:    movie.HasFile,
		Monitored:  movie.Monitored,
	}

	if movie.TmdbID != 0 {
		tmdb := movie.TmdbID
		record.TmdbID = &tmdb
	}
	if movie.ImdbID != "" {
		imdb := movie.ImdbID
		record.ImdbID = &imdb
	}

	return record
}

// ResyncMovie fetches one movie and upserts it. A transient fetch failure
// leaves any existing row untouched.
func (s *Service) ResyncMovie(ctx context.Context, movieID int) error {
	if s.radarr == nil {
		return fmt.Errorf("radarr not configured")
	}

	s.logger.Info("targeted resync", "source", "radarr", "movie_id", movieID)

	movie, err := s.radarr.GetMovie(movieID)
	if err != nil {
		return fmt.Errorf("fetching movie %d: %w", movieID, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.store.UpsertMovie(movieRecord(movie)); err != nil {
		return fmt.Errorf("upserting movie %d: %w", movieID, err)
	}

	return nil
}

// DeleteMovie removes a movie row from the mirror.
func (s *Service) DeleteMovie(ctx context.Context, movieID int) error {
	removed, err := s.store.DeleteMovieByExternalID(movieID)
	if err != nil {
		return fmt.Errorf("deleting movie %d: %w", movieID, err)
	}
	s.logger.Info("movie removed from mirror", "movie_id", movieID, "rows", removed)
	return nil
}

// resyncMovieLibrary reconciles the whole movie table against Radarr's
// listing, with the same all-or-nothing fetch semantics as the series path.
func (s *Service) resyncMovieLibrary(ctx context.Context) error {
	if s.radarr == nil {
		return fmt.Errorf("radarr not configured")
	}

	s.logger.Info("full resync starting", "source", "radarr")

	logID, err := s.store.StartSyncLog(classify.SourceRadarr)
	if err != nil {
		return err
	}

	listing, err := s.radarr.GetMovies()
	if err != nil {
		s.store.CompleteSyncLog(logID, "failed", 0, 0, 0, 0, err.Error())
		return fmt.Errorf("fetching movie listing: %w", err)
	}

	if err := ctx.Err(); err != nil {
		s.store.CompleteSyncLog(logID, "failed", 0, 0, 0, 0, "context cancelled")
		return err
	}

	records := make([]*database.Movie, 0, len(listing))
	for i := range listing {
		records = append(records, movieRecord(&listing[i]))
	}

	added, updated, removed, err := s.store.ReconcileMovies(records, s.prune)
	if err != nil {
		s.store.CompleteSyncLog(logID, "failed", len(records), 0, 0, 0, err.Error())
		return fmt.Errorf("reconciling movies: %w", err)
	}

	s.store.CompleteSyncLog(logID, "success", len(records), added, updated, removed, "")
	s.logger.Info("full resync completed", "source", "radarr",
		"processed", len(records), "added", added, "updated", updated, "removed", removed)

	return nil
}
