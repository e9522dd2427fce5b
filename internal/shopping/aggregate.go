package shopping

import (
	"strings"

	"kondate-planner/internal/meal"
)

// amountSeparator joins the distinct amounts contributed for one ingredient
// name, e.g. "200g / 1本".
const amountSeparator = " / "

type aggregateEntry struct {
	name    string
	amounts []string
}

// Aggregate collapses a flat sequence of ingredient snapshots into a
// deduplicated shopping list. Names are trimmed and used as-is as the dedup
// key; snapshots with an empty name are skipped entirely. Output items appear
// in first-seen order of their names, with dense zero-based sort orders.
//
// The function is pure: it never fails, performs no I/O and does not mutate
// its input.
func Aggregate(snapshots []meal.IngredientSnapshot) []ListItem {
	// Ordered entries plus a name index keep the first-seen contract explicit
	// instead of leaning on map iteration order.
	var entries []*aggregateEntry
	index := make(map[string]int)

	for _, snap := range snapshots {
		name := strings.TrimSpace(snap.Name)
		if name == "" {
			continue
		}
		amount := strings.TrimSpace(snap.Amount)

		i, seen := index[name]
		if !seen {
			i = len(entries)
			index[name] = i
			entries = append(entries, &aggregateEntry{name: name})
		}
		if amount != "" {
			entries[i].amounts = append(entries[i].amounts, amount)
		}
	}

	items := make([]ListItem, 0, len(entries))
	for i, e := range entries {
		items = append(items, ListItem{
			Name:      e.name,
			Amount:    mergeAmounts(e.amounts),
			Checked:   false,
			SortOrder: i,
		})
	}
	return items
}

// mergeAmounts joins the distinct amounts in first-occurrence order, or
// returns nil when none were contributed.
func mergeAmounts(amounts []string) *string {
	if len(amounts) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(amounts))
	distinct := make([]string, 0, len(amounts))
	for _, a := range amounts {
		if seen[a] {
			continue
		}
		seen[a] = true
		distinct = append(distinct, a)
	}

	merged := strings.Join(distinct, amountSeparator)
	return &merged
}
