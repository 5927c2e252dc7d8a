package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// CreateRecipeRequest represents the request body for saving a recipe
type CreateRecipeRequest struct {
	Name            string  `json:"name" binding:"required"`
	Ingredients     string  `json:"ingredients"`
	Steps           string  `json:"steps"`
	Calories        int     `json:"calories"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fats            float64 `json:"fats"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	MealType        string  `json:"meal_type" binding:"required"`
	MealNumber      *int    `json:"meal_number"`
}

// UpdateRecipeRequest represents the request body for updating a recipe
type UpdateRecipeRequest struct {
	Name            *string  `json:"name"`
	Ingredients     *string  `json:"ingredients"`
	Steps           *string  `json:"steps"`
	Calories        *int     `json:"calories"`
	Protein         *float64 `json:"protein"`
	Carbs           *float64 `json:"carbs"`
	Fats            *float64 `json:"fats"`
	PrepTimeMinutes *int     `json:"prep_time_minutes"`
	MealType        *string  `json:"meal_type"`
	MealNumber      *int     `json:"meal_number"`
}

// GenerateRecipeRequest asks the LLM for a recipe sized to one meal.
type GenerateRecipeRequest struct {
	MealType             string   `json:"meal_type" binding:"required"`
	AvailableTime        int      `json:"available_time" binding:"required,min=1"`
	AvailableIngredients string   `json:"available_ingredients"`
	MealNumber           *int     `json:"meal_number"`
	MealPercentage       *float64 `json:"meal_percentage"`
	Description          string   `json:"description"`
}

// RecipeSummary is the recipe as embedded in a meal slot.
type RecipeSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Calories        int       `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fats            float64   `json:"fats"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	MealType        string    `json:"meal_type"`
}

// NewRecipeSummary returns nil for a nil recipe.
func NewRecipeSummary(r *models.Recipe) *RecipeSummary {
	if r == nil {
		return nil
	}
	return &RecipeSummary{
		ID:              r.ID,
		Name:            r.Name,
		Calories:        r.Calories,
		Protein:         r.Protein,
		Carbs:           r.Carbs,
		Fats:            r.Fats,
		PrepTimeMinutes: r.PrepTimeMinutes,
		MealType:        r.MealType,
	}
}

// GeneratedRecipe is an unsaved recipe returned by the generator. DraftID
// keys the cached copy.
type GeneratedRecipe struct {
	DraftID         string    `json:"draft_id"`
	Name            string    `json:"name"`
	Ingredients     string    `json:"ingredients"`
	Steps           string    `json:"steps"`
	Calories        int       `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fats            float64   `json:"fats"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	MealType        string    `json:"meal_type"`
	MealNumber      *int      `json:"meal_number,omitempty"`
	TargetCalories  *float64  `json:"target_calories,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecipeImageURL is a presigned download link.
type RecipeImageURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
