package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/inventura/internal/db"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, d *db.DB) (string, error) {
	// Try to generate and insert first (safe against races).
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := d.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = d.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}

// GetAdminPasswordHash returns the stored admin password hash, or "" if none
// has been set yet.
func GetAdminPasswordHash(ctx context.Context, d *db.DB) (string, error) {
	var hash string
	err := d.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'admin_password_hash'`,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying admin password hash: %w", err)
	}
	return hash, nil
}

// SetAdminPasswordHash stores (or replaces) the admin password hash.
func SetAdminPasswordHash(ctx context.Context, d *db.DB, hash string) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ('admin_password_hash', ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		hash,
	)
	if err != nil {
		return fmt.Errorf("storing admin password hash: %w", err)
	}
	return nil
}
