// Package db persists the change tracker in a local SQLite database.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS changes (
	id          TEXT PRIMARY KEY,
	request_id  TEXT NOT NULL,
	command     TEXT NOT NULL,
	change_type TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	backup_id   TEXT NOT NULL DEFAULT '',
	reverted    INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_request ON changes(request_id);
CREATE INDEX IF NOT EXISTS idx_changes_created ON changes(created_at);
`

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return conn, nil
}
