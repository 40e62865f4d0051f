package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
)

// LogsForCode returns all log entries for an item, newest first.
func LogsForCode(ctx context.Context, d *db.DB, code string) ([]model.LogEntry, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, code, action, ts FROM logs WHERE code = ? ORDER BY ts DESC`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// RecentLogs returns the newest log entries across all items.
func RecentLogs(ctx context.Context, d *db.DB, limit int) ([]model.LogEntry, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, code, action, ts FROM logs ORDER BY ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.Code, &e.Action, &e.TS); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
