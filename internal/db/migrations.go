package db

import "fmt"

// migrate runs database migrations.
func (m *Mirror) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS lectures (
			source    TEXT NOT NULL,
			position  INTEGER NOT NULL,
			id        TEXT NOT NULL,
			title     TEXT NOT NULL,
			grade     INTEGER NOT NULL DEFAULT 0,
			credits   TEXT NOT NULL DEFAULT '',
			major     TEXT NOT NULL DEFAULT '',
			schedule  TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (source, position)
		);

		CREATE INDEX IF NOT EXISTS idx_lectures_id ON lectures(id);

		CREATE TABLE IF NOT EXISTS syncs (
			source     TEXT PRIMARY KEY,
			synced_at  TEXT NOT NULL
		);
	`

	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("creating lectures table: %w", err)
	}

	return nil
}
