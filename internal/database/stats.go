package database

// Stats summarizes the mirror for the status command and dashboard.
type Stats struct {
	SeriesCount   int
	EpisodeCount  int
	MovieCount    int
	WebhookEvents map[Outcome]int
}

// GetStats returns row counts per entity type plus webhook outcome tallies.
func (m *Store) GetStats() (*Stats, error) {
	counts := make([]int, 3)
	queries := []string{
		`SELECT COUNT(*) FROM series`,
		`SELECT COUNT(*) FROM episodes`,
		`SELECT COUNT(*) FROM movies`,
	}

	m.mu.RLock()
	for i, q := range queries {
		if err := m.db.QueryRow(q).Scan(&counts[i]); err != nil {
			m.mu.RUnlock()
			return nil, err
		}
	}
	m.mu.RUnlock()

	outcomes, err := m.CountWebhookEventsByOutcome()
	if err != nil {
		return nil, err
	}

	return &Stats{
		SeriesCount:   counts[0],
		EpisodeCount:  counts[1],
		MovieCount:    counts[2],
		WebhookEvents: outcomes,
	}, nil
}
