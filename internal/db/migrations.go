package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS schedules (
			local_id         INTEGER PRIMARY KEY AUTOINCREMENT,
			remote_id        INTEGER NOT NULL DEFAULT 0,
			name             TEXT NOT NULL,
			favorite         INTEGER NOT NULL DEFAULT 0,
			difficulty_score REAL NOT NULL DEFAULT 0,
			weekly_hours     REAL NOT NULL DEFAULT 0,
			credit_hours     REAL NOT NULL DEFAULT 0,
			campus           TEXT NOT NULL DEFAULT '',
			term             TEXT NOT NULL DEFAULT '',
			dirty            INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT,
			updated_at       TEXT
		);

		CREATE TABLE IF NOT EXISTS courses (
			schedule_id       INTEGER NOT NULL REFERENCES schedules(local_id) ON DELETE CASCADE,
			position          INTEGER NOT NULL,
			item_id           TEXT NOT NULL,
			course_id         TEXT NOT NULL,
			title             TEXT NOT NULL,
			instructor        TEXT NOT NULL DEFAULT '',
			session           TEXT NOT NULL DEFAULT '',
			repeat_days       TEXT NOT NULL DEFAULT '',
			start_time        TEXT NOT NULL DEFAULT '',
			end_time          TEXT NOT NULL DEFAULT '',
			color             TEXT NOT NULL DEFAULT '',
			difficulty_rating INTEGER NOT NULL DEFAULT 0,
			credit_hours      REAL NOT NULL DEFAULT 0,
			campus            TEXT NOT NULL DEFAULT '',
			term              TEXT NOT NULL DEFAULT '',
			rating_details    TEXT,
			PRIMARY KEY (schedule_id, position)
		);

		CREATE TABLE IF NOT EXISTS events (
			schedule_id INTEGER NOT NULL REFERENCES schedules(local_id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			item_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			repeat_days TEXT NOT NULL DEFAULT '',
			start_time  TEXT NOT NULL DEFAULT '',
			end_time    TEXT NOT NULL DEFAULT '',
			color       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (schedule_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_schedules_remote ON schedules(remote_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}
