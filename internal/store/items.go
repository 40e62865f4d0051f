package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/inventura/internal/db"
	"github.com/erazemk/inventura/internal/model"
)

// CreateItem creates a new item for a freshly scanned code and appends its
// CREATE log entry in the same transaction.
func CreateItem(ctx context.Context, d *db.DB, code string, ts int64) (*model.Item, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (code, status, taken_count, last_action_ts, quantity)
		 VALUES (?, ?, 0, ?, 0)`,
		code, model.StatusAvailable, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO logs (code, action, ts) VALUES (?, ?, ?)`,
		code, model.ActionCreate, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("logging item creation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item creation: %w", err)
	}
	d.MarkChanged()

	return GetItemByCode(ctx, d, code)
}

// GetItemByCode returns an item by its code, or nil if no such item exists.
func GetItemByCode(ctx context.Context, d *db.DB, code string) (*model.Item, error) {
	item := &model.Item{}
	var name, category, location, imageMime sql.NullString
	err := d.QueryRowContext(ctx,
		`SELECT id, code, name, category, location, status, taken_count, last_action_ts, quantity, image_mime
		 FROM items WHERE code = ?`, code,
	).Scan(&item.ID, &item.Code, &name, &category, &location, &item.Status,
		&item.TakenCount, &item.LastActionTS, &item.Quantity, &imageMime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Name = name.String
	item.Category = category.String
	item.Location = location.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all items ordered by code.
func ListItems(ctx context.Context, d *db.DB) ([]model.Item, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, code, name, category, location, status, taken_count, last_action_ts, quantity, image_mime
		 FROM items ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var name, category, location, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Code, &name, &category, &location, &item.Status,
			&item.TakenCount, &item.LastActionTS, &item.Quantity, &imageMime); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Name = name.String
		item.Category = category.String
		item.Location = location.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus sets an item's status, taken counter and action timestamp, and
// appends the matching log entry. Both writes commit together so that a status
// change can never exist without its log entry.
func UpdateStatus(ctx context.Context, d *db.DB, code, status string, takenCount int, ts int64, action string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ?, taken_count = ?, last_action_ts = ? WHERE code = ?`,
		status, takenCount, ts, code,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("item %q not found", code)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO logs (code, action, ts) VALUES (?, ?, ?)`,
		code, action, ts,
	)
	if err != nil {
		return fmt.Errorf("logging status change: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing status change: %w", err)
	}
	d.MarkChanged()
	return nil
}

// SetQuantity overwrites an item's quantity.
func SetQuantity(ctx context.Context, d *db.DB, code string, quantity int) error {
	_, err := d.ExecContext(ctx,
		`UPDATE items SET quantity = ? WHERE code = ?`,
		quantity, code,
	)
	if err != nil {
		return fmt.Errorf("setting quantity: %w", err)
	}
	d.MarkChanged()
	return nil
}

// AddQuantity adjusts an item's quantity by delta. Adjustments that would take
// the quantity below zero do not apply (the guard lives in the statement, so
// concurrent decrements cannot race past the floor).
func AddQuantity(ctx context.Context, d *db.DB, code string, delta int) error {
	_, err := d.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ? WHERE code = ? AND quantity + ? >= 0`,
		delta, code, delta,
	)
	if err != nil {
		return fmt.Errorf("adjusting quantity: %w", err)
	}
	d.MarkChanged()
	return nil
}

// ResetTakenCount zeroes the taken counter for one item.
func ResetTakenCount(ctx context.Context, d *db.DB, code string) error {
	_, err := d.ExecContext(ctx,
		`UPDATE items SET taken_count = 0 WHERE code = ?`, code,
	)
	if err != nil {
		return fmt.Errorf("resetting taken count: %w", err)
	}
	d.MarkChanged()
	return nil
}

// ResetAllTakenCounts zeroes the taken counter for every item.
func ResetAllTakenCounts(ctx context.Context, d *db.DB) error {
	_, err := d.ExecContext(ctx, `UPDATE items SET taken_count = 0`)
	if err != nil {
		return fmt.Errorf("resetting all taken counts: %w", err)
	}
	d.MarkChanged()
	return nil
}

// DeleteItem removes an item. With cascadeLogs the item's log entries are
// removed in the same transaction; otherwise they are left as history.
func DeleteItem(ctx context.Context, d *db.DB, code string, cascadeLogs bool) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if cascadeLogs {
		if _, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE code = ?`, code); err != nil {
			return fmt.Errorf("deleting item logs: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE code = ?`, code); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	d.MarkChanged()
	return nil
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, d *db.DB, code string, image []byte, mime string) error {
	_, err := d.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE code = ?`,
		image, mime, code,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	d.MarkChanged()
	return nil
}

// GetItemImage returns an item's photo and MIME type.
func GetItemImage(ctx context.Context, d *db.DB, code string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := d.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE code = ?`, code,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
