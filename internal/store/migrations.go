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

// migrateV1 creates the review history tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			author          TEXT NOT NULL,
			language        TEXT NOT NULL,
			status          TEXT NOT NULL,
			score           INTEGER NOT NULL,
			comment_count   INTEGER NOT NULL,
			issue_count     INTEGER NOT NULL,
			approval_needed BOOLEAN NOT NULL,
			created_at      TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS review_rules (
			review_id TEXT NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
			rule      TEXT NOT NULL,
			count     INTEGER NOT NULL,
			PRIMARY KEY (review_id, rule)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_status ON reviews(status)`,
		`CREATE INDEX IF NOT EXISTS idx_review_rules_rule ON review_rules(rule)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

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
