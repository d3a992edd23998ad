package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HealthCheck reports liveness and the mirror's row counts
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// GetStats returns aggregate mirror counts
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetActivity returns recent webhook events, newest first
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 500)

	events, err := s.store.GetRecentWebhookEvents(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "activity_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetSyncHistory returns recent full-resync runs, newest first
func (s *Server) GetSyncHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 200)

	logs, err := s.store.GetRecentSyncLogs(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// TriggerSync starts a manual full resync for one source
func (s *Server) TriggerSync(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	configured := false
	for _, src := range s.syncer.ConfiguredSources() {
		if src == source {
			configured = true
			break
		}
	}
	if !configured {
		writeError(w, http.StatusNotFound, "unknown_source", "no such sync source: "+source)
		return
	}

	ok := s.syncer.Submit("manual_resync_"+source, func(ctx context.Context) error {
		return s.syncer.ResyncLibrary(ctx, source)
	})
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "queue_full", "sync queue is saturated, try again shortly")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"source": source,
	})
}

// ListSeries returns every mirrored series
func (s *Server) ListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.ListSeries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// GetSeries returns one series by its external id
func (s *Server) GetSeries(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", "series id must be an integer")
		return
	}

	series, err := s.store.GetSeriesByExternalID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_failed", err.Error())
		return
	}
	if series == nil {
		writeError(w, http.StatusNotFound, "not_found", "series not found")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// ListEpisodes returns a series' episodes in season/episode order
func (s *Server) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", "series id must be an integer")
		return
	}

	episodes, err := s.store.ListEpisodesBySeries(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

// ListMovies returns every mirrored movie
func (s *Server) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.store.ListMovies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// GetMovie returns one movie by its external id
func (s *Server) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", "movie id must be an integer")
		return
	}

	movie, err := s.store.GetMovieByExternalID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_failed", err.Error())
		return
	}
	if movie == nil {
		writeError(w, http.StatusNotFound, "not_found", "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// queryLimit parses ?limit= with a default and a cap
func queryLimit(r *http.Request, def, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
