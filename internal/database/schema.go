package database

import "database/sql"

// Schema version for migrations
const currentSchemaVersion = 3

// SQL migration scripts
var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			// Series mirrored from the TV library manager
			`CREATE TABLE series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,

				-- Identity in the owning external service
				external_id INTEGER NOT NULL,

				title TEXT NOT NULL,
				year INTEGER,
				tvdb_id INTEGER,
				imdb_id TEXT,

				overview TEXT,
				network TEXT,
				status TEXT,
				poster_url TEXT,
				path TEXT,

				episode_file_count INTEGER DEFAULT 0,

				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				last_synced_at DATETIME NOT NULL,

				UNIQUE(external_id)
			)`,

			`CREATE INDEX idx_series_tvdb ON series(tvdb_id)`,
			`CREATE INDEX idx_series_title ON series(title)`,

			// Episodes belong to exactly one series (by its external id)
			`CREATE TABLE episodes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,

				external_id INTEGER NOT NULL,
				series_id INTEGER NOT NULL,

				season INTEGER NOT NULL,
				episode INTEGER NOT NULL,
				title TEXT,
				air_date TEXT,
				overview TEXT,
				has_file BOOLEAN NOT NULL DEFAULT 0,

				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				last_synced_at DATETIME NOT NULL,

				UNIQUE(external_id)
			)`,

			`CREATE INDEX idx_episodes_series ON episodes(series_id)`,
			`CREATE INDEX idx_episodes_number ON episodes(series_id, season, episode)`,

			// Movies mirrored from the movie library manager
			`CREATE TABLE movies (
				id INTEGER PRIMARY KEY AUTOINCREMENT,

				external_id INTEGER NOT NULL,

				title TEXT NOT NULL,
				year INTEGER,
				tmdb_id INTEGER,
				imdb_id TEXT,

				overview TEXT,
				studio TEXT,
				status TEXT,
				poster_url TEXT,
				path TEXT,

				has_file BOOLEAN NOT NULL DEFAULT 0,

				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				last_synced_at DATETIME NOT NULL,

				UNIQUE(external_id)
			)`,

			`CREATE INDEX idx_movies_tmdb ON movies(tmdb_id)`,
			`CREATE INDEX idx_movies_title ON movies(title)`,

			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
	{
		version: 2,
		up: []string{
			// Append-only audit trail of inbound webhooks
			`CREATE TABLE webhook_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				source TEXT NOT NULL,
				event_type TEXT NOT NULL,
				received_at DATETIME NOT NULL,
				payload TEXT,
				outcome TEXT NOT NULL,
				error TEXT
			)`,

			`CREATE INDEX idx_webhook_events_received ON webhook_events(received_at)`,
			`CREATE INDEX idx_webhook_events_source ON webhook_events(source)`,

			// One row per full-library resync run
			`CREATE TABLE sync_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				source TEXT NOT NULL,
				started_at DATETIME NOT NULL,
				completed_at DATETIME,
				status TEXT NOT NULL,
				items_processed INTEGER DEFAULT 0,
				items_added INTEGER DEFAULT 0,
				items_updated INTEGER DEFAULT 0,
				items_removed INTEGER DEFAULT 0,
				error_message TEXT
			)`,

			`CREATE INDEX idx_sync_log_source ON sync_log(source, started_at)`,

			`INSERT INTO schema_version (version) VALUES (2)`,
		},
	},
	{
		version: 3,
		up: []string{
			// Monitored flags mirrored from Sonarr/Radarr, plus an outcome
			// index so the activity view can filter failures quickly.
			`ALTER TABLE series ADD COLUMN monitored BOOLEAN NOT NULL DEFAULT 1`,
			`ALTER TABLE episodes ADD COLUMN monitored BOOLEAN NOT NULL DEFAULT 1`,
			`ALTER TABLE movies ADD COLUMN monitored BOOLEAN NOT NULL DEFAULT 1`,
			`CREATE INDEX idx_webhook_events_outcome ON webhook_events(outcome)`,
			`INSERT INTO schema_version (version) VALUES (3)`,
		},
	},
}

type migration struct {
	version int
	up      []string
}

// applyMigrations applies any pending schema migrations
func applyMigrations(db *sql.DB) error {
	// Check current version
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// schema_version doesn't exist yet - this is a fresh database
		currentVersion = 0
	}

	// Apply migrations in order
	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}

		// Each migration inserts its own schema_version row, so there is
		// nothing to record here beyond committing.
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
