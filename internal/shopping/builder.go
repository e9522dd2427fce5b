package shopping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kondate-planner/internal/inventory"
	"kondate-planner/internal/meal"
)

// BuildMode selects how a shopping list is populated.
type BuildMode string

const (
	// ModeManual creates an empty list to be filled by hand.
	ModeManual BuildMode = "manual"
	// ModeFromMeals aggregates the ingredients of all meals in the range.
	ModeFromMeals BuildMode = "from_meals"
	// ModeFromMealsMinusInventory additionally drops items already covered by
	// on-hand inventory.
	ModeFromMealsMinusInventory BuildMode = "from_meals_minus_inventory"
)

// ParseBuildMode converts a wire-level mode string into a BuildMode.
func ParseBuildMode(s string) (BuildMode, error) {
	switch BuildMode(s) {
	case ModeManual, ModeFromMeals, ModeFromMealsMinusInventory:
		return BuildMode(s), nil
	}
	return "", &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

// MealSource provides meal records with materialized ingredient snapshots for
// an inclusive date range. Order must be stable within one call.
type MealSource interface {
	GetMealsInRange(ctx context.Context, startDate, endDate string) ([]meal.Record, error)
}

// InventorySource provides current on-hand items.
type InventorySource interface {
	GetAllItems(ctx context.Context) ([]inventory.Item, error)
}

// ListStore persists shopping list headers and their items.
type ListStore interface {
	CreateList(ctx context.Context, startDate, endDate string, title *string) (*List, error)
	InsertItems(ctx context.Context, listID int64, items []ListItem) error
}

// BuildRequest describes one shopping list build.
type BuildRequest struct {
	StartDate string
	EndDate   string
	Mode      BuildMode
	Title     *string
}

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	List       *List
	ItemsSaved int
}

// Builder drives the end-to-end creation of a persisted shopping list. All
// collaborators are injected so tests can substitute fakes.
type Builder struct {
	meals     MealSource
	inventory InventorySource
	store     ListStore
}

// NewBuilder creates a Builder over the given stores.
func NewBuilder(meals MealSource, inv InventorySource, store ListStore) *Builder {
	return &Builder{meals: meals, inventory: inv, store: store}
}

// Build validates the request, aggregates according to its mode and persists
// the result. Validation failures surface before any store call; a failed
// item insert after header creation surfaces as IncompletePersistenceError.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	var items []ListItem
	switch req.Mode {
	case ModeManual:
		// No aggregation: the list starts empty.
	case ModeFromMeals:
		var err error
		items, err = b.aggregateRange(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return nil, err
		}
	case ModeFromMealsMinusInventory:
		aggregated, err := b.aggregateRange(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return nil, err
		}
		stock, err := b.inventory.GetAllItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory: %w", err)
		}
		items = subtractInventory(aggregated, stock)
	default:
		return nil, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", req.Mode)}
	}

	list, err := b.store.CreateList(ctx, req.StartDate, req.EndDate, req.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}

	if len(items) > 0 {
		if err := b.store.InsertItems(ctx, list.ID, items); err != nil {
			return nil, &IncompletePersistenceError{ListID: list.ID, Err: err}
		}
	}

	list.Items = items
	return &BuildResult{List: list, ItemsSaved: len(items)}, nil
}

// aggregateRange fetches the meals in range, flattens their snapshots in
// (meal order, within-meal order) and runs the aggregator.
func (b *Builder) aggregateRange(ctx context.Context, startDate, endDate string) ([]ListItem, error) {
	meals, err := b.meals.GetMealsInRange(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read meals: %w", err)
	}

	var snapshots []meal.IngredientSnapshot
	for _, m := range meals {
		snapshots = append(snapshots, m.Ingredients...)
	}
	return Aggregate(snapshots), nil
}

// subtractInventory drops every shopping item whose trimmed name exactly
// matches an inventory item with a positive quantity. Amounts are free text,
// so coverage is name-match only; no partial subtraction is attempted.
func subtractInventory(items []ListItem, stock []inventory.Item) []ListItem {
	onHand := make(map[string]bool, len(stock))
	for _, s := range stock {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		if s.Quantity > 0 {
			onHand[name] = true
		}
	}

	kept := make([]ListItem, 0, len(items))
	for _, item := range items {
		if onHand[item.Name] {
			continue
		}
		item.SortOrder = len(kept)
		kept = append(kept, item)
	}
	return kept
}

func validateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return &ValidationError{Field: "start_date", Reason: fmt.Sprintf("not a valid YYYY-MM-DD date: %q", startDate)}
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return &ValidationError{Field: "end_date", Reason: fmt.Sprintf("not a valid YYYY-MM-DD date: %q", endDate)}
	}
	if end.Before(start) {
		return &ValidationError{Field: "date_range", Reason: fmt.Sprintf("start date %s is after end date %s", startDate, endDate)}
	}
	return nil
}
