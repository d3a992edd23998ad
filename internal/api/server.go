// Package api exposes the webhook dispatcher and the JSON read surface
// over the library mirror.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/config"
	"github.com/showkeeper/showkeeper/internal/database"
	"github.com/showkeeper/showkeeper/internal/syncer"
)

// Server implements the API
type Server struct {
	store      *database.Store
	cfg        *config.Config
	syncer     *syncer.Service
	classifier *classify.Classifier
	logger     *slog.Logger
	version    string
}

// NewServer creates a new API server
func NewServer(store *database.Store, cfg *config.Config, syncSvc *syncer.Service, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		store:      store,
		cfg:        cfg,
		syncer:     syncSvc,
		classifier: classify.NewDefault(),
		logger:     logger,
		version:    version,
	}
}

// Handler returns the HTTP handler with CORS and API routes
func (s *Server) Handler() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/api/v1", s.apiRouter())

	return r
}

// apiRouter returns a router with API routes
func (s *Server) apiRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Post("/webhooks/sonarr", s.HandleSonarrWebhook)
	r.Post("/webhooks/radarr", s.HandleRadarrWebhook)
	r.Post("/webhooks/jellyfin", s.HandleJellyfinWebhook)

	r.Get("/health", s.HealthCheck)
	r.Get("/stats", s.GetStats)
	r.Get("/activity", s.GetActivity)
	r.Get("/sync/history", s.GetSyncHistory)
	r.Post("/sync/{source}", s.TriggerSync)

	r.Get("/series", s.ListSeries)
	r.Get("/series/{id}", s.GetSeries)
	r.Get("/series/{id}/episodes", s.ListEpisodes)
	r.Get("/movies", s.ListMovies)
	r.Get("/movies/{id}", s.GetMovie)

	return r
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
