package sonarr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("url from config", func(t *testing.T) {
		client := NewClient(Config{URL: "http://mysonarr:8989", APIKey: "test-key"})
		if client.baseURL != "http://mysonarr:8989" {
			t.Errorf("expected configured URL, got %s", client.baseURL)
		}
		if client.apiKey != "test-key" {
			t.Errorf("expected api key test-key, got %s", client.apiKey)
		}
	})

	t.Run("custom timeout", func(t *testing.T) {
		client := NewClient(Config{
			URL:     "http://custom:9999",
			APIKey:  "custom-key",
			Timeout: 60 * time.Second,
		})
		if client.httpClient.Timeout != 60*time.Second {
			t.Errorf("expected custom timeout, got %s", client.httpClient.Timeout)
		}
	})
}

func TestClientPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/api/v3/system/status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SystemStatus{
			AppName: "Sonarr",
			Version: "4.0.0",
		})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "test-key"})
	if err := client.Ping(); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}

func TestClientPingUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "wrong-key"})
	if err := client.Ping(); err == nil {
		t.Error("expected error for unauthorized request")
	}
}

func TestGetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/series/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Series{
			ID:     42,
			Title:  "For All Mankind",
			Year:   2019,
			TvdbID: 368408,
			Images: []Image{{CoverType: "poster", RemoteURL: "https://artwork.example/poster.jpg"}},
			Statistics: &SeriesStatistic{
				EpisodeFileCount: 30,
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "k"})
	series, err := client.GetSeries(42)
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if series.Title != "For All Mankind" {
		t.Errorf("unexpected title %q", series.Title)
	}
	if series.Poster() != "https://artwork.example/poster.jpg" {
		t.Errorf("unexpected poster %q", series.Poster())
	}
	if series.Statistics.EpisodeFileCount != 30 {
		t.Errorf("unexpected file count %d", series.Statistics.EpisodeFileCount)
	}
}

func TestGetEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/v3/episode") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("seriesId") != "42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Episode{
			{ID: 1, SeriesID: 42, SeasonNumber: 1, EpisodeNumber: 1, Title: "Red Moon", HasFile: true},
			{ID: 2, SeriesID: 42, SeasonNumber: 1, EpisodeNumber: 2, Title: "He Built the Saturn V"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "k"})
	episodes, err := client.GetEpisodes(42)
	if err != nil {
		t.Fatalf("GetEpisodes failed: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	if !episodes[0].HasFile || episodes[1].HasFile {
		t.Error("has_file flags decoded incorrectly")
	}
}

func TestGetSeriesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "k"})
	if _, err := client.GetSeries(999); err == nil {
		t.Error("expected error for missing series")
	}
}

func TestWebhookPayloadDecoding(t *testing.T) {
	body := `{
		"eventType": "Download",
		"series": {"id": 42, "title": "For All Mankind", "tvdbId": 368408},
		"episodes": [{"id": 7, "seasonNumber": 2, "episodeNumber": 3, "title": "Rules of Engagement"}]
	}`

	var payload WebhookPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload.EventType != "Download" {
		t.Errorf("unexpected event type %q", payload.EventType)
	}
	if payload.Series == nil || payload.Series.ID != 42 {
		t.Errorf("series not decoded: %+v", payload.Series)
	}
	if len(payload.Episodes) != 1 || payload.Episodes[0].ID != 7 {
		t.Errorf("episodes not decoded: %+v", payload.Episodes)
	}
}
