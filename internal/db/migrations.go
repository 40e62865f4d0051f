package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: logs used to be unindexed, which made per-code history
	// queries scan the whole table.
	`CREATE INDEX IF NOT EXISTS idx_logs_code ON logs(code)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Databases created before quantity tracking lack the column; SQLite has
	// no ADD COLUMN IF NOT EXISTS, so guard it explicitly.
	hasQuantity, err := hasColumn(db, "items", "quantity")
	if err != nil {
		return err
	}
	if !hasQuantity {
		if _, err := db.Exec(
			`ALTER TABLE items ADD COLUMN quantity INTEGER NOT NULL DEFAULT 0`,
		); err != nil {
			return fmt.Errorf("adding quantity column: %w", err)
		}
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}

// hasColumn reports whether a table already has the named column.
func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, fmt.Errorf("inspecting table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("scanning column name: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
