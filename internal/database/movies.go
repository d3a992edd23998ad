package database

import (
	"database/sql"
	"time"
)

// Movie represents a movie mirrored from the movie library manager.
type Movie struct {
	ID           int64
	ExternalID   int
	Title        string
	Year         int
	TmdbID       *int
	ImdbID       *string
	Overview     string
	Studio       string
	Status       string
	PosterURL    string
	Path         string
	HasFile      bool
	Monitored    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt time.Time
}

const movieColumns = `id, external_id, title, year, tmdb_id, imdb_id,
	overview, studio, status, poster_url, path, has_file, monitored,
	created_at, updated_at, last_synced_at`

func scanMovie(row interface{ Scan(...any) error }) (*Movie, error) {
	var v Movie
	err := row.Scan(
		&v.ID, &v.ExternalID, &v.Title, &v.Year, &v.TmdbID, &v.ImdbID,
		&v.Overview, &v.Studio, &v.Status, &v.PosterURL, &v.Path, &v.HasFile, &v.Monitored,
		&v.CreatedAt, &v.UpdatedAt, &v.LastSyncedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *Movie) sameMirroredFields(o *Movie) bool {
	return v.Title == o.Title &&
		v.Year == o.Year &&
		intPtrEqual(v.TmdbID, o.TmdbID) &&
		strPtrEqual(v.ImdbID, o.ImdbID) &&
		v.Overview == o.Overview &&
		v.Studio == o.Studio &&
		v.Status == o.Status &&
		v.PosterURL == o.PosterURL &&
		v.Path == o.Path &&
		v.HasFile == o.HasFile &&
		v.Monitored == o.Monitored
}

// GetMovieByExternalID returns the movie row for an external id, or nil.
func (m *Store) GetMovieByExternalID(externalID int) (*Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row := m.db.QueryRow(
		`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`,
		externalID,
	)
	return scanMovie(row)
}

// ListMovies returns all mirrored movies ordered by title.
func (m *Store) ListMovies() ([]*Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.db.Query(`SELECT ` + movieColumns + ` FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		v, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpsertMovie inserts or updates a movie row keyed by external id.
// Returns true if the row's mirrored content changed.
func (m *Store) UpsertMovie(v *Movie) (changed bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return upsertMovie(m.db, v, time.Now().UTC())
}

func upsertMovie(q execQueryer, v *Movie, now time.Time) (bool, error) {
	existing, err := scanMovie(q.QueryRow(
		`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`,
		v.ExternalID,
	))
	if err != nil {
		return false, err
	}

	if existing == nil {
		v.CreatedAt = now
		v.UpdatedAt = now
		v.LastSyncedAt = now

		result, err := q.Exec(`
			INSERT INTO movies (
				external_id, title, year, tmdb_id, imdb_id,
				overview, studio, status, poster_url, path, has_file, monitored,
				created_at, updated_at, last_synced_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ExternalID, v.Title, v.Year, v.TmdbID, v.ImdbID,
			v.Overview, v.Studio, v.Status, v.PosterURL, v.Path, v.HasFile, v.Monitored,
			v.CreatedAt, v.UpdatedAt, v.LastSyncedAt,
		)
		if err != nil {
			return false, err
		}
		v.ID, _ = result.LastInsertId()
		return true, nil
	}

	v.ID = existing.ID
	v.CreatedAt = existing.CreatedAt

	if existing.sameMirroredFields(v) {
		_, err := q.Exec(`UPDATE movies SET last_synced_at = ? WHERE id = ?`, now, existing.ID)
		v.UpdatedAt = existing.UpdatedAt
		v.LastSyncedAt = now
		return false, err
	}

	v.UpdatedAt = now
	v.LastSyncedAt = now
	_, err = q.Exec(`
		UPDATE movies SET
			title = ?, year = ?, tmdb_id = ?, imdb_id = ?,
			overview = ?, studio = ?, status = ?, poster_url = ?, path = ?,
			has_file = ?, monitored = ?,
			updated_at = ?, last_synced_at = ?
		WHERE id = ?`,
		v.Title, v.Year, v.TmdbID, v.ImdbID,
		v.Overview, v.Studio, v.Status, v.PosterURL, v.Path,
		v.HasFile, v.Monitored,
		v.UpdatedAt, v.LastSyncedAt,
		existing.ID,
	)
	return true, err
}

// DeleteMovieByExternalID removes a single movie row.
func (m *Store) DeleteMovieByExternalID(externalID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.db.Exec(`DELETE FROM movies WHERE external_id = ?`, externalID)
	if err != nil {
		return 0, err
	}
	removed, _ := result.RowsAffected()
	return removed, nil
}

// ReconcileMovies applies a complete library listing in one transaction,
// mirroring ReconcileSeries semantics for the movie table.
func (m *Store) ReconcileMovies(listing []*Movie, prune bool) (added, updated, removed int, err error) {
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

	for _, v := range listing {
		seen[v.ExternalID] = true

		existing, scanErr := scanMovie(tx.QueryRow(
			`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`,
			v.ExternalID,
		))
		if scanErr != nil {
			err = scanErr
			return 0, 0, 0, err
		}
		isNew := existing == nil

		changed, upErr := upsertMovie(tx, v, now)
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
		rows, qErr := tx.Query(`SELECT external_id FROM movies`)
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
			if _, err = tx.Exec(`DELETE FROM movies WHERE external_id = ?`, id); err != nil {
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
