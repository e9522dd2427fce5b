package inventory

import "time"

// Item represents one on-hand food or goods entry. Quantity is a plain count;
// Unit is informational only and never used for conversion.
type Item struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int64     `json:"quantity" db:"quantity"`
	Unit      string    `json:"unit" db:"unit"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
