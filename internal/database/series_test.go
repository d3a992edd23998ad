package database

import (
	"testing"
)

func testSeries(externalID int) *Series {
	tvdb := 100000 + externalID
	return &Series{
		ExternalID:       externalID,
		Title:            "Test Show",
		Year:             2020,
		TvdbID:           &tvdb,
		Overview:         "A show about tests",
		Network:          "HBO",
		Status:           "continuing",
		Path:             "/tv/Test Show (2020)",
		EpisodeFileCount: 8,
		Monitored:        true,
	}
}

func TestUpsertSeriesInsertThenFetch(t *testing.T) {
	db := setupTestDB(t)

	s := testSeries(42)
	changed, err := db.UpsertSeries(s)
	if err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	if !changed {
		t.Error("insert should report changed")
	}

	got, err := db.GetSeriesByExternalID(42)
	if err != nil {
		t.Fatalf("GetSeriesByExternalID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected series row")
	}
	if got.Title != "Test Show" || got.EpisodeFileCount != 8 {
		t.Errorf("unexpected row content: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.LastSyncedAt.IsZero() {
		t.Error("timestamps should be set on insert")
	}
}

func TestUpsertSeriesIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertSeries(testSeries(42)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	first, err := db.GetSeriesByExternalID(42)
	if err != nil {
		t.Fatalf("fetch after first upsert failed: %v", err)
	}

	changed, err := db.UpsertSeries(testSeries(42))
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if changed {
		t.Error("identical upsert should not report changed")
	}

	second, err := db.GetSeriesByExternalID(42)
	if err != nil {
		t.Fatalf("fetch after second upsert failed: %v", err)
	}

	// Everything except last_synced_at must be byte-for-byte identical.
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("updated_at churned on identical upsert: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at churned on identical upsert")
	}
	if second.LastSyncedAt.Before(first.LastSyncedAt) {
		t.Errorf("last_synced_at should advance")
	}
}

func TestUpsertSeriesUpdatesChangedFields(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertSeries(testSeries(42)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	updated := testSeries(42)
	updated.Status = "ended"
	updated.EpisodeFileCount = 10

	changed, err := db.UpsertSeries(updated)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !changed {
		t.Error("content change should report changed")
	}

	got, _ := db.GetSeriesByExternalID(42)
	if got.Status != "ended" || got.EpisodeFileCount != 10 {
		t.Errorf("unexpected row after update: %+v", got)
	}
}

func TestDeleteSeriesCascadesToEpisodes(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertSeries(testSeries(42)); err != nil {
		t.Fatalf("series insert failed: %v", err)
	}
	for i := 1; i <= 3; i++ {
		ep := &Episode{ExternalID: 1000 + i, SeriesID: 42, Season: 1, Episode: i, HasFile: true}
		if _, err := db.UpsertEpisode(ep); err != nil {
			t.Fatalf("episode insert failed: %v", err)
		}
	}
	// Episode of an unrelated series must survive the cascade.
	if _, err := db.UpsertSeries(testSeries(43)); err != nil {
		t.Fatalf("second series insert failed: %v", err)
	}
	if _, err := db.UpsertEpisode(&Episode{ExternalID: 2000, SeriesID: 43, Season: 1, Episode: 1}); err != nil {
		t.Fatalf("unrelated episode insert failed: %v", err)
	}

	removed, err := db.DeleteSeriesByExternalID(42)
	if err != nil {
		t.Fatalf("DeleteSeriesByExternalID failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 series removed, got %d", removed)
	}

	if s, _ := db.GetSeriesByExternalID(42); s != nil {
		t.Error("series row should be gone")
	}
	eps, err := db.ListEpisodesBySeries(42)
	if err != nil {
		t.Fatalf("ListEpisodesBySeries failed: %v", err)
	}
	if len(eps) != 0 {
		t.Errorf("expected cascade to remove episodes, %d remain", len(eps))
	}

	other, _ := db.ListEpisodesBySeries(43)
	if len(other) != 1 {
		t.Errorf("unrelated episode should survive, got %d", len(other))
	}
}

func TestReconcileSeriesLeavesStaleByDefault(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertSeries(testSeries(1)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// Listing no longer contains series 1; retention policy "leave" keeps it.
	added, updated, removed, err := db.ReconcileSeries([]*Series{testSeries(2)}, false)
	if err != nil {
		t.Fatalf("ReconcileSeries failed: %v", err)
	}
	if added != 1 || updated != 0 || removed != 0 {
		t.Errorf("expected added=1 updated=0 removed=0, got %d/%d/%d", added, updated, removed)
	}

	if s, _ := db.GetSeriesByExternalID(1); s == nil {
		t.Error("stale series should be left in place without prune")
	}
}

func TestReconcileSeriesPrunesWhenConfigured(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.UpsertSeries(testSeries(1)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := db.UpsertEpisode(&Episode{ExternalID: 500, SeriesID: 1, Season: 1, Episode: 1}); err != nil {
		t.Fatalf("episode seed failed: %v", err)
	}

	_, _, removed, err := db.ReconcileSeries([]*Series{testSeries(2)}, true)
	if err != nil {
		t.Fatalf("ReconcileSeries failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if s, _ := db.GetSeriesByExternalID(1); s != nil {
		t.Error("pruned series should be gone")
	}
	if eps, _ := db.ListEpisodesBySeries(1); len(eps) != 0 {
		t.Error("pruned series episodes should be gone")
	}
}

func TestReconcileSeriesIdempotent(t *testing.T) {
	db := setupTestDB(t)

	listing := []*Series{testSeries(1), testSeries(2), testSeries(3)}

	if _, _, _, err := db.ReconcileSeries(listing, false); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	added, updated, removed, err := db.ReconcileSeries(listing, false)
	if err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if added != 0 || updated != 0 || removed != 0 {
		t.Errorf("second reconcile should be a no-op, got %d/%d/%d", added, updated, removed)
	}

	all, err := db.ListSeries()
	if err != nil {
		t.Fatalf("ListSeries failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 series, got %d", len(all))
	}
}
