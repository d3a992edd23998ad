package database

import (
	"time"
)

// Outcome records how an inbound webhook was handled.
type Outcome string

const (
	// OutcomeFullResync means the event triggered a full library resync.
	OutcomeFullResync Outcome = "resync_full"
	// OutcomeTargetedResync means the event triggered a per-entity resync
	// (including targeted deletions).
	OutcomeTargetedResync Outcome = "resync_targeted"
	// OutcomeIgnored means the event type is recognized but deliberately
	// not acted on (connectivity tests, playback notifications).
	OutcomeIgnored Outcome = "ignored"
	// OutcomeUnknown means the event type is not in the source's
	// vocabulary. Recorded distinctly from OutcomeIgnored so audits can
	// tell a known no-op from a vocabulary gap.
	OutcomeUnknown Outcome = "unknown"
	// OutcomeFailed means the payload was unparseable or the triggered
	// resync failed.
	OutcomeFailed Outcome = "failed"
)

// WebhookEvent is one row of the append-only webhook audit trail.
// Rows are never deleted; only the outcome may be finalized after insert.
type WebhookEvent struct {
	ID         int64
	Source     string
	EventType  string
	ReceivedAt time.Time
	Payload    string
	Outcome    Outcome
	Error      string
}

// InsertWebhookEvent records one received webhook and returns its row id.
// Exactly one row is written per received call, parseable or not.
func (m *Store) InsertWebhookEvent(ev *WebhookEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now().UTC()
	}

	result, err := m.db.Exec(`
		INSERT INTO webhook_events (source, event_type, received_at, payload, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Source, ev.EventType, ev.ReceivedAt, ev.Payload, string(ev.Outcome), ev.Error,
	)
	if err != nil {
		return 0, err
	}

	ev.ID, _ = result.LastInsertId()
	return ev.ID, nil
}

// MarkWebhookEventFailed finalizes an event's outcome after its background
// resync failed. This is the only mutation permitted after insert.
func (m *Store) MarkWebhookEventFailed(id int64, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(
		`UPDATE webhook_events SET outcome = ?, error = ? WHERE id = ?`,
		string(OutcomeFailed), errMsg, id,
	)
	return err
}

// GetRecentWebhookEvents returns the N most recent webhook events,
// newest first.
func (m *Store) GetRecentWebhookEvents(limit int) ([]*WebhookEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := m.db.Query(`
		SELECT id, source, event_type, received_at, payload, outcome, COALESCE(error, '')
		FROM webhook_events
		ORDER BY received_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*WebhookEvent
	for rows.Next() {
		var ev WebhookEvent
		var outcome string
		err := rows.Scan(&ev.ID, &ev.Source, &ev.EventType, &ev.ReceivedAt, &ev.Payload, &outcome, &ev.Error)
		if err != nil {
			return nil, err
		}
		ev.Outcome = Outcome(outcome)
		events = append(events, &ev)
	}

	return events, rows.Err()
}

// CountWebhookEventsByOutcome returns a per-outcome tally for the stats view.
func (m *Store) CountWebhookEventsByOutcome() (map[Outcome]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.db.Query(`SELECT outcome, COUNT(*) FROM webhook_events GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[Outcome(outcome)] = n
	}

	return counts, rows.Err()
}
