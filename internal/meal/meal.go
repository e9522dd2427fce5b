package meal

import "time"

// Slot identifies which meal of the day a kondate entry covers.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotBento     Slot = "bento"
)

// ValidSlot reports whether s is one of the known meal slots.
func ValidSlot(s Slot) bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotBento:
		return true
	}
	return false
}

// IngredientSnapshot is the name+amount pair frozen into a meal at save time.
// It is not a reference into any ingredient master; both fields are free text.
type IngredientSnapshot struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Record represents one planned meal (kondate) entry. Several records may
// exist for the same date and slot.
type Record struct {
	ID          int64                `json:"id"`
	Date        string               `json:"date"` // YYYY-MM-DD
	Slot        Slot                 `json:"meal_slot"`
	RecipeID    *string              `json:"recipe_id,omitempty"`
	Name        string               `json:"name"`
	Ingredients []IngredientSnapshot `json:"ingredients"`
	CreatedAt   time.Time            `json:"created_at"`
}
