package database

import (
	"database/sql"
	"time"
)

// Episode represents one episode mirrored from the TV library manager.
// SeriesID is the external id of the owning series, not a local row id.
type Episode struct {
	ID           int64
	ExternalID   int
	SeriesID     int
	Season       int
	Episode      int
	Title        string
	AirDate      string
	Overview     string
	HasFile      bool
	Monitored    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt time.Time
}

const episodeColumns = `id, external_id, series_id, season, episode,
	title, air_date, overview, has_file, monitored,
	created_at, updated_at, last_synced_at`

func scanEpisode(row interface{ Scan(...any) error }) (*Episode, error) {
	var e Episode
	err := row.Scan(
		&e.ID, &e.ExternalID, &e.SeriesID, &e.Season, &e.Episode,
		&e.Title, &e.AirDate, &e.Overview, &e.HasFile, &e.Monitored,
		&e.CreatedAt, &e.UpdatedAt, &e.LastSyncedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *Episode) sameMirroredFields(o *Episode) bool {
	return e.SeriesID == o.SeriesID &&
		e.Season == o.Season &&
		e.Episode == o.Episode &&
		e.Title == o.Title &&
		e.AirDate == o.AirDate &&
		e.Overview == o.Overview &&
		e.HasFile == o.HasFile &&
		e.Monitored == o.Monitored
}

// GetEpisodeByExternalID returns the episode row for an external id, or nil.
func (m *Store) GetEpisodeByExternalID(externalID int) (*Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.db.QueryRow(
		`SELECT `+episodeColumns+` FROM episodes WHERE external_id = ?`,
		externalID,
	)
	return scanEpisode(row)
}

// ListEpisodesBySeries returns the episodes of one series in airing order.
func (m *Store) ListEpisodesBySeries(seriesExternalID int) ([]*Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.db.Query(
		`SELECT `+episodeColumns+` FROM episodes
		 WHERE series_id = ?
		 ORDER BY season, episode`,
		seriesExternalID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertEpisode inserts or updates an episode row keyed by external id.
// Returns true if the row's mirrored content changed.
func (m *Store) UpsertEpisode(e *Episode) (changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return upsertEpisode(m.db, e, time.Now().UTC())
}

func upsertEpisode(q execQueryer, e *Episode, now time.Time) (bool, error) {
	existing, err := scanEpisode(q.QueryRow(
		`SELECT `+episodeColumns+` FROM episodes WHERE external_id = ?`,
		e.ExternalID,
	))
	if err != nil {
		return false, err
	}

	if existing == nil {
		e.CreatedAt = now
		e.UpdatedAt = now
		e.LastSyncedAt = now

		result, err := q.Exec(`
			INSERT INTO episodes (
				external_id, series_id, season, episode,
				title, air_date, overview, has_file, monitored,
				created_at, updated_at, last_synced_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ExternalID, e.SeriesID, e.Season, e.Episode,
			e.Title, e.AirDate, e.Overview, e.HasFile, e.Monitored,
			e.CreatedAt, e.UpdatedAt, e.LastSyncedAt,
		)
		if err != nil {
			return false, err
		}
		e.ID, _ = result.LastInsertId()
		return true, nil
	}

	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt

	if existing.sameMirroredFields(e) {
		_, err := q.Exec(`UPDATE episodes SET last_synced_at = ? WHERE id = ?`, now, existing.ID)
		e.UpdatedAt = existing.UpdatedAt
		e.LastSyncedAt = now
		return false, err
	}

	e.UpdatedAt = now
	e.LastSyncedAt = now
	_, err = q.Exec(`
		UPDATE episodes SET
			series_id = ?, season = ?, episode = ?,
			title = ?, air_date = ?, overview = ?, has_file = ?, monitored = ?,
			updated_at = ?, last_synced_at = ?
		WHERE id = ?`,
		e.SeriesID, e.Season, e.Episode,
		e.Title, e.AirDate, e.Overview, e.HasFile, e.Monitored,
		e.UpdatedAt, e.LastSyncedAt,
		existing.ID,
	)
	return true, err
}

// DeleteEpisodeByExternalID removes a single episode row.
func (m *Store) DeleteEpisodeByExternalID(externalID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.db.Exec(`DELETE FROM episodes WHERE external_id = ?`, externalID)
	if err != nil {
		return 0, err
	}
	removed, _ := result.RowsAffected()
	return removed, nil
}
