package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"kondate-planner/internal/database"
	"kondate-planner/internal/inventory"
	"kondate-planner/internal/meal"
	"kondate-planner/internal/recipe"
	"kondate-planner/internal/shopping"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	meals := meal.NewRepository(db.SQL)
	inv := inventory.NewRepository(db.SQL)
	lists := shopping.NewRepository(db.SQL)
	recipes := recipe.NewRepository(db.SQL)
	builder := shopping.NewBuilder(meals, inv, lists)

	// No LLM in tests: generator and clipper stay nil.
	return New(meals, inv, lists, builder, recipes, nil, nil).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rr := doJSON(t, h, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
}

func TestShoppingListFlow(t *testing.T) {
	h := newTestServer(t)

	// Plan two meals sharing an ingredient.
	for _, m := range []CreateMealRequest{
		{Date: "2024-05-01", Slot: "lunch", Name: "やきそば", Ingredients: []meal.IngredientSnapshot{
			{Name: "豚肉", Amount: "200g"}, {Name: "キャベツ", Amount: "1/4玉"},
		}},
		{Date: "2024-05-02", Slot: "dinner", Name: "生姜焼き", Ingredients: []meal.IngredientSnapshot{
			{Name: "豚肉", Amount: "300g"}, {Name: "キャベツ", Amount: "1/4玉"},
		}},
	} {
		rr := doJSON(t, h, "POST", "/meals", m)
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201 creating meal, got %d: %s", rr.Code, rr.Body.String())
		}
	}

	// Stock covers the cabbage.
	rr := doJSON(t, h, "POST", "/inventory", SaveInventoryItemRequest{Name: "キャベツ", Quantity: 1, Unit: "玉"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating inventory item, got %d", rr.Code)
	}

	// Build the shortfall list.
	rr = doJSON(t, h, "POST", "/shopping-lists", BuildShoppingListRequest{
		StartDate: "2024-05-01", EndDate: "2024-05-07", Mode: "from_meals_minus_inventory",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 building list, got %d: %s", rr.Code, rr.Body.String())
	}

	var built BuildShoppingListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &built); err != nil {
		t.Fatalf("Failed to decode build response: %v", err)
	}
	if built.ItemsSaved != 1 {
		t.Fatalf("Expected 1 item after subtraction, got %d", built.ItemsSaved)
	}
	if built.List.Items[0].Name != "豚肉" {
		t.Errorf("Expected remaining item 豚肉, got %s", built.List.Items[0].Name)
	}
	if built.List.Items[0].Amount == nil || *built.List.Items[0].Amount != "200g / 300g" {
		t.Errorf("Expected merged amount '200g / 300g', got %v", built.List.Items[0].Amount)
	}

	// Fetch the persisted list and check its item off.
	rr = doJSON(t, h, "GET", fmt.Sprintf("/shopping-lists/%d", built.List.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 fetching list, got %d", rr.Code)
	}
	var fetched shopping.List
	if err := json.Unmarshal(rr.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(fetched.Items) != 1 {
		t.Fatalf("Expected 1 persisted item, got %d", len(fetched.Items))
	}

	checked := true
	rr = doJSON(t, h, "PATCH",
		fmt.Sprintf("/shopping-lists/%d/items/%d", built.List.ID, fetched.Items[0].ID),
		UpdateShoppingItemRequest{Checked: &checked})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 checking item, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBuildShoppingList_Validation(t *testing.T) {
	h := newTestServer(t)

	t.Run("UnknownMode", func(t *testing.T) {
		rr := doJSON(t, h, "POST", "/shopping-lists", BuildShoppingListRequest{
			StartDate: "2024-05-01", EndDate: "2024-05-07", Mode: "weekly",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for unknown mode, got %d", rr.Code)
		}
	})

	t.Run("ReversedRange", func(t *testing.T) {
		rr := doJSON(t, h, "POST", "/shopping-lists", BuildShoppingListRequest{
			StartDate: "2024-05-07", EndDate: "2024-05-01", Mode: "from_meals",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for reversed range, got %d", rr.Code)
		}
	})

	t.Run("ManualMode", func(t *testing.T) {
		rr := doJSON(t, h, "POST", "/shopping-lists", BuildShoppingListRequest{
			StartDate: "2024-05-01", EndDate: "2024-05-07", Mode: "manual",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201 for manual mode, got %d", rr.Code)
		}
		var built BuildShoppingListResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &built); err != nil {
			t.Fatalf("Failed to decode build response: %v", err)
		}
		if built.ItemsSaved != 0 {
			t.Errorf("Expected 0 items in manual mode, got %d", built.ItemsSaved)
		}
	})
}

func TestUpdateShoppingItem_Amount(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, "POST", "/shopping-lists", BuildShoppingListRequest{
		StartDate: "2024-06-01", EndDate: "2024-06-01", Mode: "manual",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating list, got %d", rr.Code)
	}
	var built BuildShoppingListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &built); err != nil {
		t.Fatalf("Failed to decode build response: %v", err)
	}

	listID := built.List.ID

	// Seed the manual list with one item through the API.
	amount := "2個"
	rr = doJSON(t, h, "POST", fmt.Sprintf("/shopping-lists/%d/items", listID),
		AddShoppingItemRequest{Name: "卵", Amount: &amount})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 adding item, got %d: %s", rr.Code, rr.Body.String())
	}
	var item shopping.ListItem
	if err := json.Unmarshal(rr.Body.Bytes(), &item); err != nil {
		t.Fatalf("Failed to decode added item: %v", err)
	}
	itemPath := fmt.Sprintf("/shopping-lists/%d/items/%d", listID, item.ID)

	currentAmount := func() *string {
		rr := doJSON(t, h, "GET", fmt.Sprintf("/shopping-lists/%d", listID), nil)
		var list shopping.List
		if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
			t.Fatalf("Failed to decode list: %v", err)
		}
		if len(list.Items) != 1 {
			t.Fatalf("Expected 1 item, got %d", len(list.Items))
		}
		return list.Items[0].Amount
	}

	t.Run("SetAmount", func(t *testing.T) {
		rr := doJSON(t, h, "PATCH", itemPath, json.RawMessage(`{"amount": "6個"}`))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", rr.Code, rr.Body.String())
		}
		if got := currentAmount(); got == nil || *got != "6個" {
			t.Errorf("Expected amount '6個', got %v", got)
		}
	})

	t.Run("NullClearsAmount", func(t *testing.T) {
		rr := doJSON(t, h, "PATCH", itemPath, json.RawMessage(`{"amount": null}`))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("Expected 204 for explicit null, got %d: %s", rr.Code, rr.Body.String())
		}
		if got := currentAmount(); got != nil {
			t.Errorf("Expected amount cleared by null, got %q", *got)
		}
	})

	t.Run("AbsentFieldIsRejectedAsEmptyPatch", func(t *testing.T) {
		rr := doJSON(t, h, "PATCH", itemPath, json.RawMessage(`{}`))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for a patch with no fields, got %d", rr.Code)
		}
	})

	t.Run("NonStringAmountRejected", func(t *testing.T) {
		rr := doJSON(t, h, "PATCH", itemPath, json.RawMessage(`{"amount": 5}`))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for a numeric amount, got %d", rr.Code)
		}
	})
}

func TestGenerateRecipe_NotConfigured(t *testing.T) {
	h := newTestServer(t)
	rr := doJSON(t, h, "POST", "/recipes/generate", GenerateRecipeRequest{Request: "anything"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 when no LLM is configured, got %d", rr.Code)
	}
}
