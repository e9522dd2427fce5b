package shopping

import "time"

// ListItem is one line of a shopping list. Amount is nil when no contributing
// ingredient ever carried a non-empty amount.
type ListItem struct {
	ID        int64   `json:"id" db:"id"`
	ListID    int64   `json:"list_id" db:"list_id"`
	Name      string  `json:"name" db:"name"`
	Amount    *string `json:"amount" db:"amount"`
	Checked   bool    `json:"checked" db:"checked"`
	SortOrder int     `json:"sort_order" db:"sort_order"`
}

// List is a shopping list header with its items. The date range is inclusive
// and immutable after creation; edits go through item-level operations.
type List struct {
	ID        int64      `json:"id" db:"id"`
	StartDate string     `json:"start_date" db:"start_date"`
	EndDate   string     `json:"end_date" db:"end_date"`
	Title     *string    `json:"title" db:"title"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	Items     []ListItem `json:"items,omitempty"`
}
