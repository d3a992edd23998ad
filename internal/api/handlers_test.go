package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/showkeeper/showkeeper/internal/classify"
	"github.com/showkeeper/showkeeper/internal/database"
)

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	w := get(t, router, "/api/v1/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Errorf("unexpected health response: %v", resp)
	}
}

func TestSeriesEndpoints(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	if _, err := env.store.UpsertSeries(&database.Series{ExternalID: 42, Title: "Severance", Year: 2022}); err != nil {
		t.Fatalf("seeding series: %v", err)
	}
	if _, err := env.store.UpsertEpisode(&database.Episode{ExternalID: 7, SeriesID: 42, Season: 1, Episode: 1, Title: "Good News About Hell"}); err != nil {
		t.Fatalf("seeding episode: %v", err)
	}

	w := get(t, router, "/api/v1/series")
	if w.Code != http.StatusOK {
		t.Fatalf("list series: expected 200, got %d", w.Code)
	}
	var list []database.Series
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Severance" {
		t.Errorf("unexpected series list: %+v", list)
	}

	w = get(t, router, "/api/v1/series/42")
	if w.Code != http.StatusOK {
		t.Fatalf("get series: expected 200, got %d", w.Code)
	}

	w = get(t, router, "/api/v1/series/42/episodes")
	if w.Code != http.StatusOK {
		t.Fatalf("list episodes: expected 200, got %d", w.Code)
	}
	var eps []database.Episode
	if err := json.Unmarshal(w.Body.Bytes(), &eps); err != nil {
		t.Fatalf("decoding episodes: %v", err)
	}
	if len(eps) != 1 {
		t.Errorf("expected 1 episode, got %d", len(eps))
	}

	w = get(t, router, "/api/v1/series/999")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing series: expected 404, got %d", w.Code)
	}

	w = get(t, router, "/api/v1/series/notanumber")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}

func TestMovieEndpoints(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	if _, err := env.store.UpsertMovie(&database.Movie{ExternalID: 9, Title: "Dune", Year: 2021}); err != nil {
		t.Fatalf("seeding movie: %v", err)
	}

	w := get(t, router, "/api/v1/movies")
	if w.Code != http.StatusOK {
		t.Fatalf("list movies: expected 200, got %d", w.Code)
	}

	w = get(t, router, "/api/v1/movies/9")
	if w.Code != http.StatusOK {
		t.Fatalf("get movie: expected 200, got %d", w.Code)
	}

	w = get(t, router, "/api/v1/movies/999")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing movie: expected 404, got %d", w.Code)
	}
}

func TestActivityEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	for i := 0; i < 3; i++ {
		_, err := env.store.InsertWebhookEvent(&database.WebhookEvent{
			Source:    classify.SourceSonarr,
			EventType: "Test",
			Payload:   "{}",
			Outcome:   database.OutcomeIgnored,
		})
		if err != nil {
			t.Fatalf("seeding events: %v", err)
		}
	}

	w := get(t, router, "/api/v1/activity")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var events []database.WebhookEvent
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}

	w = get(t, router, "/api/v1/activity?limit=2")
	events = nil
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding limited events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected limit=2 to apply, got %d", len(events))
	}
}

func TestTriggerSyncUnknownSource(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/plex", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown source, got %d", w.Code)
	}
}

func TestTriggerSyncRunsFullResync(t *testing.T) {
	upstream := newFakeArr(t)
	env := newTestEnv(t, upstream.URL, nil)
	router := env.server.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/sonarr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	env.drain()

	last, err := env.store.GetLastSyncForSource(classify.SourceSonarr)
	if err != nil {
		t.Fatalf("GetLastSyncForSource failed: %v", err)
	}
	if last == nil || last.Status != "success" {
		t.Fatalf("expected successful sync log, got %+v", last)
	}

	w2 := get(t, router, "/api/v1/sync/history")
	if w2.Code != http.StatusOK {
		t.Fatalf("sync history: expected 200, got %d", w2.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t, "http://unused.invalid", nil)
	defer env.drain()
	router := env.server.Handler()

	if _, err := env.store.UpsertSeries(&database.Series{ExternalID: 1, Title: "X"}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	w := get(t, router, "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats database.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.SeriesCount != 1 {
		t.Errorf("expected series count 1, got %d", stats.SeriesCount)
	}
}
