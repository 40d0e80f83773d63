package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sheets (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL CHECK(type IN ('SAP','FAC','MAQ')),
		status      TEXT NOT NULL DEFAULT 'borrador'
		            CHECK(status IN ('borrador','finalizada','aprobada')),
		client      TEXT NOT NULL DEFAULT '',
		product     TEXT NOT NULL DEFAULT '',
		sap_code    TEXT NOT NULL DEFAULT '',
		fields      TEXT NOT NULL DEFAULT '{}',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sheets_type ON sheets(type)`,
	`CREATE INDEX IF NOT EXISTS idx_sheets_status ON sheets(status)`,
	`CREATE INDEX IF NOT EXISTS idx_sheets_created ON sheets(created_at)`,

	`CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,

	`INSERT OR IGNORE INTO counters (name, value) VALUES ('fac', 0)`,

	`CREATE TABLE IF NOT EXISTS drafts (
		session_id  TEXT PRIMARY KEY,
		sheet_id    TEXT NOT NULL DEFAULT '',
		sheet_type  TEXT NOT NULL DEFAULT '',
		fields      TEXT NOT NULL DEFAULT '{}',
		updated_at  TEXT NOT NULL
	)`,
}
