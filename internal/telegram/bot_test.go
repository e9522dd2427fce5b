package telegram

import (
	"strings"
	"testing"
	"time"

	"kondate-planner/internal/meal"
	"kondate-planner/internal/shopping"
)

func TestFormatList(t *testing.T) {
	amount := "200g / 1本"
	list := &shopping.List{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-07",
		Items: []shopping.ListItem{
			{Name: "豚肉", Amount: &amount},
			{Name: "塩"},
		},
	}

	out := formatList(list)

	if !strings.Contains(out, "🛒 *Shopping List* (2024-05-01 → 2024-05-07)") {
		t.Error("Missing list header")
	}
	if !strings.Contains(out, "• 豚肉 — 200g / 1本") {
		t.Error("Missing item with amount")
	}
	if !strings.Contains(out, "• 塩\n") {
		t.Error("Missing item without amount")
	}
}

func TestFormatList_Empty(t *testing.T) {
	list := &shopping.List{StartDate: "2024-05-01", EndDate: "2024-05-01"}

	out := formatList(list)
	if !strings.Contains(out, "Nothing to buy") {
		t.Errorf("Expected empty-list message, got %q", out)
	}
}

func TestFormatDay(t *testing.T) {
	meals := []meal.Record{
		{Slot: meal.SlotBreakfast, Name: "トースト"},
		{Slot: meal.SlotDinner, Name: ""},
	}

	out := formatDay("2024-05-01", meals)

	if !strings.Contains(out, "📅 *Kondate for 2024-05-01*") {
		t.Error("Missing day header")
	}
	if !strings.Contains(out, "*breakfast*: トースト") {
		t.Error("Missing breakfast entry")
	}
	if !strings.Contains(out, "*dinner*: (untitled)") {
		t.Error("Missing placeholder for unnamed meal")
	}
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	start, end := defaultRange(now)

	if start != "2024-05-01" {
		t.Errorf("Expected start 2024-05-01, got %s", start)
	}
	if end != "2024-05-07" {
		t.Errorf("Expected end 2024-05-07, got %s", end)
	}
}
