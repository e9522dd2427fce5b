package meal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository handles persistence of planned meals.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new meal repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type mealRow struct {
	ID          int64          `db:"id"`
	Date        string         `db:"date"`
	MealSlot    string         `db:"meal_slot"`
	RecipeID    sql.NullString `db:"recipe_id"`
	Name        string         `db:"name"`
	Ingredients string         `db:"ingredients"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r mealRow) toRecord() (Record, error) {
	var ingredients []IngredientSnapshot
	if err := json.Unmarshal([]byte(r.Ingredients), &ingredients); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal ingredients for meal %d: %w", r.ID, err)
	}

	rec := Record{
		ID:          r.ID,
		Date:        r.Date,
		Slot:        Slot(r.MealSlot),
		Name:        r.Name,
		Ingredients: ingredients,
		CreatedAt:   r.CreatedAt,
	}
	if r.RecipeID.Valid {
		rec.RecipeID = &r.RecipeID.String
	}
	return rec, nil
}

// Save inserts a new meal record and returns its ID.
func (r *Repository) Save(ctx context.Context, rec *Record) (int64, error) {
	ingredientsJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal ingredients: %w", err)
	}

	var recipeID sql.NullString
	if rec.RecipeID != nil {
		recipeID = sql.NullString{String: *rec.RecipeID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meals (date, meal_slot, recipe_id, name, ingredients, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Date, string(rec.Slot), recipeID, rec.Name, string(ingredientsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read meal insert id: %w", err)
	}
	return id, nil
}

// Get retrieves a meal by its ID. Returns nil when no such meal exists.
func (r *Repository) Get(ctx context.Context, id int64) (*Record, error) {
	var row mealRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, date, meal_slot, recipe_id, name, ingredients, created_at FROM meals WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal %d: %w", id, err)
	}

	rec, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetMealsInRange returns all meals whose date lies in [startDate, endDate]
// (inclusive, YYYY-MM-DD). The order is stable across calls: by date, then by
// slot within the day, then by insertion id.
func (r *Repository) GetMealsInRange(ctx context.Context, startDate, endDate string) ([]Record, error) {
	var rows []mealRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, date, meal_slot, recipe_id, name, ingredients, created_at
		 FROM meals
		 WHERE date BETWEEN ? AND ?
		 ORDER BY date,
		   CASE meal_slot WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'bento' THEN 2 WHEN 'dinner' THEN 3 ELSE 4 END,
		   id`,
		startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals in range %s..%s: %w", startDate, endDate, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListByDate returns all meals planned for a single day.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]Record, error) {
	return r.GetMealsInRange(ctx, date, date)
}

// Delete removes a meal record. Deleting a missing meal is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete meal %d: %w", id, err)
	}
	return nil
}
