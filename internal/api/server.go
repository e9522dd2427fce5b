package api

import (
	"encoding/json"
	"log"
	"net/http"

	"kondate-planner/internal/clipper"
	"kondate-planner/internal/inventory"
	"kondate-planner/internal/meal"
	"kondate-planner/internal/recipe"
	"kondate-planner/internal/shopping"
)

// Server handles HTTP requests for the meal-planning API.
type Server struct {
	meals     *meal.Repository
	inventory *inventory.Repository
	lists     *shopping.Repository
	builder   *shopping.Builder
	recipes   *recipe.Repository
	generator *recipe.Generator
	clipper   *clipper.Clipper
}

// New creates a new API server. Generator and clipper may be nil when no LLM
// is configured; their routes then answer 503.
func New(
	meals *meal.Repository,
	inv *inventory.Repository,
	lists *shopping.Repository,
	builder *shopping.Builder,
	recipes *recipe.Repository,
	generator *recipe.Generator,
	clip *clipper.Clipper,
) *Server {
	return &Server{
		meals:     meals,
		inventory: inv,
		lists:     lists,
		builder:   builder,
		recipes:   recipes,
		generator: generator,
		clipper:   clip,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Recipes
	mux.HandleFunc("GET /recipes", s.listRecipes)
	mux.HandleFunc("GET /recipes/{id}", s.getRecipe)
	mux.HandleFunc("POST /recipes", s.createRecipe)
	mux.HandleFunc("DELETE /recipes/{id}", s.deleteRecipe)
	mux.HandleFunc("POST /recipes/generate", s.generateRecipe)
	mux.HandleFunc("POST /recipes/clip", s.clipRecipe)

	// Meals (kondates)
	mux.HandleFunc("GET /meals", s.listMeals)
	mux.HandleFunc("POST /meals", s.createMeal)
	mux.HandleFunc("DELETE /meals/{id}", s.deleteMeal)

	// Inventory
	mux.HandleFunc("GET /inventory", s.listInventory)
	mux.HandleFunc("POST /inventory", s.saveInventoryItem)
	mux.HandleFunc("POST /inventory/{id}/adjust", s.adjustInventoryItem)
	mux.HandleFunc("DELETE /inventory/{id}", s.deleteInventoryItem)

	// Shopping lists
	mux.HandleFunc("POST /shopping-lists", s.buildShoppingList)
	mux.HandleFunc("GET /shopping-lists", s.listShoppingLists)
	mux.HandleFunc("GET /shopping-lists/{id}", s.getShoppingList)
	mux.HandleFunc("DELETE /shopping-lists/{id}", s.deleteShoppingList)
	mux.HandleFunc("POST /shopping-lists/{id}/items", s.addShoppingItem)
	mux.HandleFunc("PATCH /shopping-lists/{id}/items/{itemID}", s.updateShoppingItem)
	mux.HandleFunc("DELETE /shopping-lists/{id}/items/{itemID}", s.deleteShoppingItem)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
