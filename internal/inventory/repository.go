package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository handles persistence of inventory items.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new inventory repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetAllItems returns every inventory item, ordered by name.
func (r *Repository) GetAllItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, name, quantity, unit, updated_at FROM inventory_items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

// Get retrieves an item by ID. Returns nil when no such item exists.
func (r *Repository) Get(ctx context.Context, id int64) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item,
		`SELECT id, name, quantity, unit, updated_at FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory item %d: %w", id, err)
	}
	return &item, nil
}

// Save inserts a new item or updates an existing one, returning its ID.
func (r *Repository) Save(ctx context.Context, item *Item) (int64, error) {
	if item.Quantity < 0 {
		return 0, fmt.Errorf("inventory quantity must not be negative, got %d", item.Quantity)
	}

	now := time.Now().UTC()
	if item.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO inventory_items (name, quantity, unit, updated_at) VALUES (?, ?, ?, ?)`,
			item.Name, item.Quantity, item.Unit, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert inventory item: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read inventory insert id: %w", err)
		}
		return id, nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, quantity = ?, unit = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Quantity, item.Unit, now, item.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update inventory item %d: %w", item.ID, err)
	}
	return item.ID, nil
}

// AdjustQuantity adds delta to an item's quantity, clamping at zero.
func (r *Repository) AdjustQuantity(ctx context.Context, id int64, delta int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = MAX(0, quantity + ?), updated_at = ? WHERE id = ?`,
		delta, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust quantity for inventory item %d: %w", id, err)
	}
	return nil
}

// Delete removes an inventory item.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete inventory item %d: %w", id, err)
	}
	return nil
}
