package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Series represents a TV series mirrored from the TV library manager.
// external_id is the identifier assigned by the owning service and is
// unique within the series table.
type Series struct {
	ID               int64
	ExternalID       int
	Title            string
	Year             int
	TvdbID           *int
	ImdbID           *string
	Overview         string
	Network          string
	Status           string
	PosterURL        string
	Path             string
	EpisodeFileCount int
	Monitored        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastSyncedAt     time.Time
}

const seriesColumns = `id, external_id, title, year, tvdb_id, imdb_id,
	overview, network, status, poster_url, path,
	episode_file_count, monitored,
	created_at, updated_at, last_synced_at`

func scanSeries(row interface{ Scan(...any) error }) (*Series, error) {
	var s Series
	err := row.Scan(
		&s.ID, &s.ExternalID, &s.Title, &s.Year, &s.TvdbID, &s.ImdbID,
		&s.Overview, &s.Network, &s.Status, &s.PosterURL, &s.Path,
		&s.EpisodeFileCount, &s.Monitored,
		&s.CreatedAt, &s.UpdatedAt, &s.LastSyncedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// sameMirroredFields reports whether two series carry identical state as
// fetched from the external service. Timestamps are deliberately excluded:
// an unchanged fetch must not churn anything beyond last_synced_at.
func (s *Series) sameMirroredFields(o *Series) bool {
	return s.Title == o.Title &&
		s.Year == o.Year &&
		intPtrEqual(s.TvdbID, o.TvdbID) &&
		strPtrEqual(s.ImdbID, o.ImdbID) &&
		s.Overview == o.Overview &&
		s.Network == o.Network &&
		s.Status == o.Status &&
		s.PosterURL == o.PosterURL &&
		s.Path == o.Path &&
		s.EpisodeFileCount == o.EpisodeFileCount &&
		s.Monitored == o.Monitored
}

// GetSeriesByExternalID returns the series row for an external id, or nil
// if the mirror has no such series.
func (m *Store) GetSeriesByExternalID(externalID int) (*Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.db.QueryRow(
		`SELECT `+seriesColumns+` FROM series WHERE external_id = ?`,
		externalID,
	)
	return scanSeries(row)
}

// ListSeries returns all mirrored series ordered by title.
func (m *Store) ListSeries() ([]*Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.db.Query(`SELECT ` + seriesColumns + ` FROM series ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertSeries inserts or updates a series row keyed by external id.
// Returns true if the row's mirrored content changed. An upsert carrying
// identical content only advances last_synced_at.
func (m *Store) UpsertSeries(s *Series) (changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return upsertSeries(m.db, s, time.Now().UTC())
}

type execQueryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func upsertSeries(q execQueryer, s *Series, now time.Time) (bool, error) {
	existing, err := scanSeries(q.QueryRow(
		`SELECT `+seriesColumns+` FROM series WHERE external_id = ?`,
		s.ExternalID,
	))
	if err != nil {
		return false, err
	}

	if existing == nil {
		s.CreatedAt = now
		s.UpdatedAt = now
		s.LastSyncedAt = now

		result, err := q.Exec(`
			INSERT INTO series (
				external_id, title, year, tvdb_id, imdb_id,
				overview, network, status, poster_url, path,
				episode_file_count, monitored,
				created_at, updated_at, last_synced_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ExternalID, s.Title, s.Year, s.TvdbID, s.ImdbID,
			s.Overview, s.Network, s.Status, s.PosterURL, s.Path,
			s.EpisodeFileCount, s.Monitored,
			s.CreatedAt, s.UpdatedAt, s.LastSyncedAt,
		)
		if err != nil {
			return false, err
		}
		s.ID, _ = result.LastInsertId()
		return true, nil
	}

	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt

	if existing.sameMirroredFields(s) {
		_, err := q.Exec(`UPDATE series SET last_synced_at = ? WHERE id = ?`, now, existing.ID)
		s.UpdatedAt = existing.UpdatedAt
		s.LastSyncedAt = now
		return false, err
	}

	s.UpdatedAt = now
	s.LastSyncedAt = now
	_, err = q.Exec(`
		UPDATE series SET
			title = ?, year = ?, tvdb_id = ?, imdb_id = ?,
			overview = ?, network = ?, status = ?, poster_url = ?, path = ?,
			episode_file_count = ?, monitored = ?,
			updated_at = ?, last_synced_at = ?
		WHERE id = ?`,
		s.Title, s.Year, s.TvdbID, s.ImdbID,
		s.Overview, s.Network, s.Status, s.PosterURL, s.Path,
		s.EpisodeFileCount, s.Monitored,
		s.UpdatedAt, s.LastSyncedAt,
		existing.ID,
	)
	return true, err
}

// DeleteSeriesByExternalID removes a series and every episode that belongs
// to it in a single transaction. Returns the number of series rows removed.
func (m *Store) DeleteSeriesByExternalID(externalID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.db.Begin()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM episodes WHERE series_id = ?`, externalID); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("deleting episodes for series %d: %w", externalID, err)
	}

	result, err := tx.Exec(`DELETE FROM series WHERE external_id = ?`, externalID)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("deleting series %d: %w", externalID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	removed, _ := result.RowsAffected()
	return removed, nil
}

// ReconcileSeries applies a complete library listing in one transaction:
// every listed series is upserted, and rows absent from the listing are
// removed when prune is set. With prune off, absent rows are left in place
// so a flaky upstream fetch can never empty the mirror.
func (m *Store) ReconcileSeries(listing []*Series, prune bool) (added, updated, removed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.db.Begin()
	if err != nil {
		return 0, 0, 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	seen := make(map[int]bool, len(listing))

	for _, s := range listing {
		seen[s.ExternalID] = true

		existing, scanErr := scanSeries(tx.QueryRow(
			`SELECT `+seriesColumns+` FROM series WHERE external_id = ?`,
			s.ExternalID,
		))
		if scanErr != nil {
			err = scanErr
			return 0, 0, 0, err
		}
		isNew := existing == nil

		changed, upErr := upsertSeries(tx, s, now)
		if upErr != nil {
			err = upErr
			return 0, 0, 0, err
		}
		if isNew {
			added++
		} else if changed {
			updated++
		}
	}

	if prune {
		rows, qErr := tx.Query(`SELECT external_id FROM series`)
		if qErr != nil {
			err = qErr
			return 0, 0, 0, err
		}
		var stale []int
		for rows.Next() {
			var id int
			if err = rows.Scan(&id); err != nil {
				rows.Close()
				return 0, 0, 0, err
			}
			if !seen[id] {
				stale = append(stale, id)
			}
		}
		rows.Close()
		if err = rows.Err(); err != nil {
			return 0, 0, 0, err
		}

		for _, id := range stale {
			if _, err = tx.Exec(`DELETE FROM episodes WHERE series_id = ?`, id); err != nil {
				return 0, 0, 0, err
			}
			if _, err = tx.Exec(`DELETE FROM series WHERE external_id = ?`, id); err != nil {
				return 0, 0, 0, err
			}
			removed++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, 0, err
	}
	return added, updated, removed, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
