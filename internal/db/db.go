package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle together with a change watcher. Store functions
// notify the watcher after every committed mutation so that live views can
// re-query instead of polling.
type DB struct {
	*sql.DB
	watcher *Watcher
}

// Open opens a SQLite database connection and configures pragmas.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := sqldb.Exec(p); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return &DB{DB: sqldb, watcher: NewWatcher()}, nil
}

// Watcher returns the change watcher for this database.
func (d *DB) Watcher() *Watcher {
	return d.watcher
}

// MarkChanged signals watcher subscribers that item data changed.
// Call only after a successful commit.
func (d *DB) MarkChanged() {
	d.watcher.Notify()
}
