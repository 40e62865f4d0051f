package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id             INTEGER PRIMARY KEY,
    code           TEXT NOT NULL,
    name           TEXT,
    category       TEXT,
    location       TEXT,
    status         TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'checked_out')),
    taken_count    INTEGER NOT NULL DEFAULT 0 CHECK (taken_count >= 0),
    last_action_ts INTEGER NOT NULL DEFAULT 0,
    quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    image          BLOB,
    image_mime     TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_code ON items(code);

CREATE TABLE IF NOT EXISTS logs (
    id     INTEGER PRIMARY KEY,
    code   TEXT NOT NULL,
    action TEXT NOT NULL CHECK (action IN ('create', 'take', 'return', 'auto_return')),
    ts     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_code ON logs(code);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
