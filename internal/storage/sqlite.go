/*
Package storage provides SQLite database migrations.

This file contains schema definitions and migration logic for the storage layer.
*/
package storage

import (
	"fmt"
	"log"
	"time"
)

// timeLayout is a fixed-width RFC 3339 layout so stored UTC timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// runMigrations executes database schema migrations. Callers hold s.mu.
func (s *SQLiteStorage) runMigrations() error {
	if s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "initial_schema", up: s.migration001InitialSchema},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001InitialSchema creates the initial database schema.
func (s *SQLiteStorage) migration001InitialSchema() error {
	statements := []struct {
		what  string
		query string
	}{
		{"upgrade_history table", `
			CREATE TABLE IF NOT EXISTS upgrade_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL,
				coverage_current INTEGER NOT NULL DEFAULT 0,
				coverage_target INTEGER NOT NULL DEFAULT 0,
				project_path TEXT NOT NULL,
				applied_at TEXT NOT NULL
			)
		`},
		{"upgrade_history path index", `
			CREATE INDEX IF NOT EXISTS idx_upgrade_history_path
			ON upgrade_history(project_path)
		`},
		{"activity_log table", `
			CREATE TABLE IF NOT EXISTS activity_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL,
				contribution TEXT NOT NULL DEFAULT '',
				topic TEXT NOT NULL DEFAULT '',
				minutes INTEGER NOT NULL DEFAULT 0,
				recorded_at TEXT NOT NULL
			)
		`},
		{"content_log table", `
			CREATE TABLE IF NOT EXISTS content_log (
				id TEXT PRIMARY KEY,
				topic TEXT NOT NULL,
				title TEXT NOT NULL,
				difficulty TEXT NOT NULL,
				estimated_minutes INTEGER NOT NULL,
				generated_at TEXT NOT NULL
			)
		`},
		{"content_log timestamp index", `
			CREATE INDEX IF NOT EXISTS idx_content_log_generated
			ON content_log(generated_at DESC)
		`},
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.what, err)
		}
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
