package api

import (
	"encoding/json"
	"net/http"
	"time"

	"kondate-planner/internal/meal"
)

// CreateMealRequest is the request body for planning a meal.
type CreateMealRequest struct {
	Date        string                    `json:"date"`
	Slot        string                    `json:"meal_slot"`
	RecipeID    *string                   `json:"recipe_id,omitempty"`
	Name        string                    `json:"name"`
	Ingredients []meal.IngredientSnapshot `json:"ingredients"`
}

func (s *Server) createMeal(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !meal.ValidSlot(meal.Slot(req.Slot)) {
		writeError(w, http.StatusBadRequest, "unknown meal slot")
		return
	}

	rec := meal.Record{
		Date:        req.Date,
		Slot:        meal.Slot(req.Slot),
		RecipeID:    req.RecipeID,
		Name:        req.Name,
		Ingredients: req.Ingredients,
	}
	if rec.Ingredients == nil {
		rec.Ingredients = []meal.IngredientSnapshot{}
	}

	id, err := s.meals.Save(r.Context(), &rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec.ID = id
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if date := r.URL.Query().Get("date"); date != "" {
		start, end = date, date
	}
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "provide date=YYYY-MM-DD or start=...&end=...")
		return
	}

	meals, err := s.meals.GetMealsInRange(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.meals.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
