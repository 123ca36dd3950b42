package database

import (
	"database/sql"
	"fmt"
)

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS source_snapshots (
    name TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    extract TEXT NOT NULL DEFAULT '',
    news_json TEXT NOT NULL DEFAULT '[]',
    fetched_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS query_log (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    strategy TEXT NOT NULL,
    outcome TEXT NOT NULL CHECK(outcome IN ('ok', 'error')),
    error_message TEXT,
    promise_count INTEGER DEFAULT 0,
    fulfillment_rate TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON source_snapshots(fetched_at);
CREATE INDEX IF NOT EXISTS idx_query_log_created ON query_log(created_at);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "record query duration",
		Up: func(tx *sql.Tx) error {
			exists, err := columnExists(tx, "query_log", "duration_ms")
			if err != nil {
				return err
			}
			if exists {
				return nil
			}
			_, err = tx.Exec("ALTER TABLE query_log ADD COLUMN duration_ms INTEGER DEFAULT 0")
			return err
		},
	},
}

// columnExists keeps ALTER TABLE migrations idempotent.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
