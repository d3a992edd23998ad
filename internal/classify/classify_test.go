package classify

import (
	"testing"
)

func TestClassifyUpsertWithEntityID(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		source    string
		eventType string
	}{
		{SourceSonarr, "SeriesAdd"},
		{SourceSonarr, "Download"},
		{SourceSonarr, "Rename"},
		{SourceRadarr, "MovieAdded"},
		{SourceRadarr, "Download"},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.source, tt.eventType, true); got != ActionTargeted {
			t.Errorf("Classify(%s, %s, id) = %s, want targeted", tt.source, tt.eventType, got)
		}
	}
}

func TestClassifyUpsertWithoutEntityIDFallsBackToFull(t *testing.T) {
	c := NewDefault()

	for _, tt := range []struct{ source, eventType string }{
		{SourceSonarr, "SeriesAdd"},
		{SourceRadarr, "MovieAdded"},
	} {
		if got := c.Classify(tt.source, tt.eventType, false); got != ActionFull {
			t.Errorf("Classify(%s, %s, no id) = %s, want full", tt.source, tt.eventType, got)
		}
	}
}

func TestClassifyDeleteEvents(t *testing.T) {
	c := NewDefault()

	for _, tt := range []struct{ source, eventType string }{
		{SourceSonarr, "SeriesDelete"},
		{SourceSonarr, "EpisodeFileDelete"},
		{SourceRadarr, "MovieDelete"},
		{SourceRadarr, "MovieFileDelete"},
	} {
		if got := c.Classify(tt.source, tt.eventType, true); got != ActionDelete {
			t.Errorf("Classify(%s, %s) = %s, want delete", tt.source, tt.eventType, got)
		}
	}
}

func TestClassifyObserveEvents(t *testing.T) {
	c := NewDefault()

	for _, tt := range []struct{ source, eventType string }{
		{SourceSonarr, "Test"},
		{SourceSonarr, "Grab"},
		{SourceRadarr, "Health"},
		{SourceJellyfin, "PlaybackStart"},
		{SourceJellyfin, "ItemAdded"},
	} {
		if got := c.Classify(tt.source, tt.eventType, true); got != ActionIgnore {
			t.Errorf("Classify(%s, %s) = %s, want ignore", tt.source, tt.eventType, got)
		}
	}
}

func TestClassifyUnknownEventType(t *testing.T) {
	c := NewDefault()

	// A future vocabulary addition must classify as unknown, not ignore,
	// so the gap is visible in the activity log.
	if got := c.Classify(SourceSonarr, "UnrecognizedFutureEvent", true); got != ActionUnknown {
		t.Errorf("unknown event classified as %s, want unknown", got)
	}
	if got := c.Classify("not-a-source", "Test", false); got != ActionUnknown {
		t.Errorf("unknown source classified as %s, want unknown", got)
	}
}

func TestNewRejectsOverlappingCategories(t *testing.T) {
	_, err := New(Ruleset{
		Source: "sonarr",
		Upsert: []string{"Download"},
		Delete: []string{"Download"},
	})
	if err == nil {
		t.Fatal("expected overlap between upsert and delete sets to be rejected")
	}
}

func TestNewRejectsDuplicateSource(t *testing.T) {
	_, err := New(
		Ruleset{Source: "sonarr", Observe: []string{"Test"}},
		Ruleset{Source: "sonarr", Observe: []string{"Health"}},
	)
	if err == nil {
		t.Fatal("expected duplicate source to be rejected")
	}
}

func TestDefaultsAreDisjoint(t *testing.T) {
	if _, err := New(Defaults()...); err != nil {
		t.Fatalf("stock rulesets must validate: %v", err)
	}
}
