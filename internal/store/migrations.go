package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			taken_at        TEXT NOT NULL,
			sessions        INTEGER NOT NULL,
			converted       INTEGER NOT NULL,
			conversion_rate REAL NOT NULL,
			avg_cart_value  REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS stage_counts (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL REFERENCES runs(id),
			position        INTEGER NOT NULL,
			stage           TEXT NOT NULL,
			count           INTEGER NOT NULL,
			rate            REAL NOT NULL,
			cumulative_rate REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS friction_points (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES runs(id),
			stage      TEXT NOT NULL,
			count      INTEGER NOT NULL,
			percentage REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS abandonment_reasons (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES runs(id),
			reason     TEXT NOT NULL,
			count      INTEGER NOT NULL,
			percentage REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL REFERENCES runs(id),
			rank             INTEGER NOT NULL,
			title            TEXT NOT NULL,
			category         TEXT NOT NULL,
			severity         TEXT NOT NULL,
			priority_score   REAL NOT NULL,
			minimum_days     INTEGER NOT NULL,
			recommended_days INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS impact_summaries (
			run_id                   TEXT PRIMARY KEY REFERENCES runs(id),
			revenue_increase         REAL NOT NULL,
			cost_savings             REAL NOT NULL,
			satisfaction_improvement REAL NOT NULL,
			implementation_cost      REAL NOT NULL,
			net_benefit              REAL NOT NULL,
			roi                      REAL NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_stage_counts_run ON stage_counts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friction_run ON friction_points(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reasons_run ON abandonment_reasons(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_run ON recommendations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_taken_at ON runs(taken_at)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
