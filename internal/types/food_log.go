package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// FoodLogResponse is a log entry with its date as YYYY-MM-DD.
type FoodLogResponse struct {
	ID              uuid.UUID `json:"id"`
	Food            uuid.UUID `json:"food"`
	FoodDescription string    `json:"food_description"`
	Date            string    `json:"date"`
	MealType        string    `json:"meal_type"`
	QuantityGrams   float64   `json:"quantity_grams"`
	Calories        int       `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fats            float64   `json:"fats"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewFoodLogResponse(l *models.FoodLog) FoodLogResponse {
	resp := FoodLogResponse{
		ID:            l.ID,
		Food:          l.FoodID,
		Date:          nutrition.FormatDate(l.Date),
		MealType:      l.MealType,
		QuantityGrams: l.QuantityGrams,
		Calories:      l.Calories,
		Protein:       l.Protein,
		Carbs:         l.Carbs,
		Fats:          l.Fats,
		CreatedAt:     l.CreatedAt,
	}
	if l.Food != nil {
		resp.FoodDescription = l.Food.Description
	}
	return resp
}

// DailyTotals sums a user's logs for one date. ByMeal always carries every
// meal type.
type DailyTotals struct {
	Date   string                      `json:"date"`
	Totals nutrition.Macros            `json:"totals"`
	ByMeal map[string]nutrition.Macros `json:"by_meal"`
}

// Targets are the profile's daily goals; nil when unset.
type Targets struct {
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

// DashboardResponse compares today's intake with the profile targets.
type DashboardResponse struct {
	DailyTotals
	Targets   Targets            `json:"targets"`
	Remaining *int               `json:"remaining_calories"`
	Meals     []MealSlotResponse `json:"meals"`
}

// RateLimitStatus reports the caller's remaining generation budget.
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}
