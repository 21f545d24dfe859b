package db

import (
	"database/sql"
	"fmt"
)

const (
	createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at   TEXT    NOT NULL,
    finished_at  TEXT    NOT NULL,
    files        TEXT    NOT NULL,
    format       TEXT    NOT NULL,
    lines        INTEGER NOT NULL DEFAULT 0,
    parse_errors INTEGER NOT NULL DEFAULT 0
)`

	createDNSCacheTable = `
CREATE TABLE IF NOT EXISTS dns_cache (
    ip         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    resolved_at TEXT NOT NULL
)`

	createRunsStartedIndex  = `CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`
	createDNSCacheNameIndex = `CREATE INDEX IF NOT EXISTS idx_dns_cache_name ON dns_cache(name)`
)

// Migrate creates all tables and indexes if they don't exist.
func Migrate(db *sql.DB) error {
	statements := []string{
		createRunsTable,
		createDNSCacheTable,
		createRunsStartedIndex,
		createDNSCacheNameIndex,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
