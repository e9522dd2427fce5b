package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository handles persistence of shopping lists and their items. It is the
// production ListStore behind the Builder.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateList inserts a new list header and returns it with its ID assigned.
func (r *Repository) CreateList(ctx context.Context, startDate, endDate string, title *string) (*List, error) {
	now := time.Now().UTC()

	var dbTitle sql.NullString
	if title != nil {
		dbTitle = sql.NullString{String: *title, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (start_date, end_date, title, created_at) VALUES (?, ?, ?, ?)`,
		startDate, endDate, dbTitle, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping list insert id: %w", err)
	}

	return &List{
		ID:        id,
		StartDate: startDate,
		EndDate:   endDate,
		Title:     title,
		CreatedAt: now,
	}, nil
}

// InsertItems bulk-inserts items under the given list in one transaction,
// preserving the sort order as given. Either all items are inserted or none.
func (r *Repository) InsertItems(ctx context.Context, listID int64, items []ListItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin item insert transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_items (list_id, name, amount, checked, sort_order) VALUES (?, ?, ?, ?, ?)`,
			listID, item.Name, item.Amount, item.Checked, item.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert shopping item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping items: %w", err)
	}
	return nil
}

// AddItem appends a single item to an existing list, assigning the next sort
// order. Used for hand-edited (manual) lists; aggregated builds go through
// InsertItems.
func (r *Repository) AddItem(ctx context.Context, listID int64, name string, amount *string) (*ListItem, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM shopping_lists WHERE id = ?`, listID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shopping list %d: %w", listID, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to check shopping list %d: %w", listID, err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_items (list_id, name, amount, checked, sort_order)
		 SELECT ?, ?, ?, 0, COALESCE(MAX(sort_order) + 1, 0) FROM shopping_items WHERE list_id = ?`,
		listID, name, amount, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to add shopping item %q to list %d: %w", name, listID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping item insert id: %w", err)
	}

	var item ListItem
	err = r.db.GetContext(ctx, &item,
		`SELECT id, list_id, name, amount, checked, sort_order FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back shopping item %d: %w", id, err)
	}
	return &item, nil
}

// GetList retrieves a list header with its items ordered by sort order.
// Returns nil when no such list exists.
func (r *Repository) GetList(ctx context.Context, id int64) (*List, error) {
	var list List
	err := r.db.GetContext(ctx, &list,
		`SELECT id, start_date, end_date, title, created_at FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list %d: %w", id, err)
	}

	err = r.db.SelectContext(ctx, &list.Items,
		`SELECT id, list_id, name, amount, checked, sort_order
		 FROM shopping_items WHERE list_id = ? ORDER BY sort_order, id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for shopping list %d: %w", id, err)
	}
	return &list, nil
}

// ListLists returns all list headers, most recent first, without items.
func (r *Repository) ListLists(ctx context.Context) ([]List, error) {
	var lists []List
	err := r.db.SelectContext(ctx, &lists,
		`SELECT id, start_date, end_date, title, created_at FROM shopping_lists ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

// SetItemChecked updates a single item's checked state.
func (r *Repository) SetItemChecked(ctx context.Context, itemID int64, checked bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE shopping_items SET checked = ? WHERE id = ?`, checked, itemID)
	if err != nil {
		return fmt.Errorf("failed to update checked state of item %d: %w", itemID, err)
	}
	return requireRow(res, itemID)
}

// UpdateItemAmount replaces a single item's amount. A nil amount clears it.
func (r *Repository) UpdateItemAmount(ctx context.Context, itemID int64, amount *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE shopping_items SET amount = ? WHERE id = ?`, amount, itemID)
	if err != nil {
		return fmt.Errorf("failed to update amount of item %d: %w", itemID, err)
	}
	return requireRow(res, itemID)
}

// DeleteItem removes a single item from its list.
func (r *Repository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item %d: %w", itemID, err)
	}
	return requireRow(res, itemID)
}

// DeleteList removes a list header and all of its items.
func (r *Repository) DeleteList(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin list delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_items WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete items of shopping list %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete shopping list %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list delete: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, itemID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for item %d: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("shopping item %d: %w", itemID, sql.ErrNoRows)
	}
	return nil
}
