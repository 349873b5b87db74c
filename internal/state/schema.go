package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS media_state (
			media_key TEXT PRIMARY KEY,
			offset_ms INTEGER NOT NULL DEFAULT 0,
			mode TEXT,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_media_state_updated ON media_state(updated_at DESC);

		CREATE TABLE IF NOT EXISTS disabled_tracks (
			media_key TEXT NOT NULL REFERENCES media_state(media_key) ON DELETE CASCADE,
			track INTEGER NOT NULL,
			PRIMARY KEY (media_key, track)
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
