package recipe

import "time"

// Ingredient is a free-text name+amount pair. When a recipe is planned into a
// meal these pairs are snapshotted into the meal record.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Recipe is a stored recipe document.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Servings    string       `json:"servings"`
	Tags        []string     `json:"tags"`
	SourceURL   string       `json:"source_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
