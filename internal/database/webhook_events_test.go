package database

import (
	"testing"
)

func TestInsertAndListWebhookEvents(t *testing.T) {
	db := setupTestDB(t)

	events := []*WebhookEvent{
		{Source: "sonarr", EventType: "SeriesAdd", Payload: `{"eventType":"SeriesAdd"}`, Outcome: OutcomeTargetedResync},
		{Source: "sonarr", EventType: "Test", Outcome: OutcomeIgnored},
		{Source: "radarr", EventType: "FutureEvent", Outcome: OutcomeUnknown},
	}
	for _, ev := range events {
		if _, err := db.InsertWebhookEvent(ev); err != nil {
			t.Fatalf("InsertWebhookEvent failed: %v", err)
		}
	}

	got, err := db.GetRecentWebhookEvents(10)
	if err != nil {
		t.Fatalf("GetRecentWebhookEvents failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	// Newest first
	if got[0].EventType != "FutureEvent" {
		t.Errorf("expected newest event first, got %s", got[0].EventType)
	}
	if got[0].Outcome != OutcomeUnknown {
		t.Errorf("unknown vocabulary must be recorded distinctly, got %s", got[0].Outcome)
	}
}

func TestMarkWebhookEventFailed(t *testing.T) {
	db := setupTestDB(t)

	ev := &WebhookEvent{Source: "sonarr", EventType: "Download", Outcome: OutcomeTargetedResync}
	id, err := db.InsertWebhookEvent(ev)
	if err != nil {
		t.Fatalf("InsertWebhookEvent failed: %v", err)
	}

	if err := db.MarkWebhookEventFailed(id, "fetch timed out"); err != nil {
		t.Fatalf("MarkWebhookEventFailed failed: %v", err)
	}

	got, err := db.GetRecentWebhookEvents(1)
	if err != nil {
		t.Fatalf("GetRecentWebhookEvents failed: %v", err)
	}
	if got[0].Outcome != OutcomeFailed {
		t.Errorf("expected outcome failed, got %s", got[0].Outcome)
	}
	if got[0].Error != "fetch timed out" {
		t.Errorf("expected error message preserved, got %q", got[0].Error)
	}
}

func TestCountWebhookEventsByOutcome(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 2; i++ {
		if _, err := db.InsertWebhookEvent(&WebhookEvent{Source: "sonarr", EventType: "Test", Outcome: OutcomeIgnored}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	if _, err := db.InsertWebhookEvent(&WebhookEvent{Source: "radarr", EventType: "MovieAdded", Outcome: OutcomeTargetedResync}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	counts, err := db.CountWebhookEventsByOutcome()
	if err != nil {
		t.Fatalf("CountWebhookEventsByOutcome failed: %v", err)
	}
	if counts[OutcomeIgnored] != 2 || counts[OutcomeTargetedResync] != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
