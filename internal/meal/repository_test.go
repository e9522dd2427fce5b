package meal

import (
	"context"
	"path/filepath"
	"testing"

	"kondate-planner/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := Record{
		Date: "2024-05-01",
		Slot: SlotDinner,
		Name: "カレー",
		Ingredients: []IngredientSnapshot{
			{Name: "じゃがいも", Amount: "3個"},
			{Name: "カレールー", Amount: "1/2箱"},
		},
	}

	id, err := repo.Save(ctx, &rec)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected meal to exist")
	}
	if got.Name != "カレー" || got.Slot != SlotDinner {
		t.Errorf("Unexpected meal: %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0].Name != "じゃがいも" {
		t.Errorf("Unexpected ingredients: %+v", got.Ingredients)
	}
}

func TestRepository_GetMealsInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Inserted out of calendar order on purpose.
	seed := []Record{
		{Date: "2024-05-03", Slot: SlotLunch, Name: "C"},
		{Date: "2024-05-01", Slot: SlotDinner, Name: "A-dinner"},
		{Date: "2024-05-01", Slot: SlotBreakfast, Name: "A-breakfast"},
		{Date: "2024-05-10", Slot: SlotDinner, Name: "outside"},
		{Date: "2024-05-01", Slot: SlotDinner, Name: "A-dinner-2"},
	}
	for i := range seed {
		seed[i].Ingredients = []IngredientSnapshot{}
		if _, err := repo.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := repo.GetMealsInRange(ctx, "2024-05-01", "2024-05-07")
	if err != nil {
		t.Fatalf("GetMealsInRange failed: %v", err)
	}

	names := make([]string, len(got))
	for i, m := range got {
		names[i] = m.Name
	}
	want := []string{"A-breakfast", "A-dinner", "A-dinner-2", "C"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d meals in range, got %d (%v)", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected meal %q at position %d, got %q", want[i], i, names[i])
		}
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := Record{Date: "2024-05-01", Slot: SlotLunch, Ingredients: []IngredientSnapshot{}}
	id, err := repo.Save(ctx, &rec)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected meal to be gone, got %+v", got)
	}
}
