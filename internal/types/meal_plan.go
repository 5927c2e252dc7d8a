package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// MealSlotResponse is a slot with its derived day name and date.
type MealSlotResponse struct {
	ID               uuid.UUID      `json:"id"`
	MealPlan         uuid.UUID      `json:"meal_plan"`
	DayOfWeek        int            `json:"day_of_week"`
	DayName          string         `json:"day_name"`
	Date             string         `json:"date,omitempty"`
	MealNumber       int            `json:"meal_number"`
	MealName         string         `json:"meal_name"`
	Recipe           *uuid.UUID     `json:"recipe"`
	RecipeDetail     *RecipeSummary `json:"recipe_detail"`
	IsLeftover       bool           `json:"is_leftover"`
	OriginalMealSlot *uuid.UUID     `json:"original_meal_slot"`
	Notes            string         `json:"notes"`
	Display          string         `json:"display"`
}

// NewMealSlotResponse renders s. The date is left empty unless the owning
// plan is loaded.
func NewMealSlotResponse(s *models.MealSlot) MealSlotResponse {
	resp := MealSlotResponse{
		ID:               s.ID,
		MealPlan:         s.MealPlanID,
		DayOfWeek:        s.DayOfWeek,
		DayName:          s.DayName(),
		MealNumber:       s.MealNumber,
		MealName:         s.MealName,
		Recipe:           s.RecipeID,
		RecipeDetail:     NewRecipeSummary(s.Recipe),
		IsLeftover:       s.IsLeftover,
		OriginalMealSlot: s.OriginalMealSlotID,
		Notes:            s.Notes,
		Display:          s.String(),
	}
	if s.MealPlan != nil {
		resp.Date = nutrition.FormatDate(s.Date())
	}
	return resp
}

// MealPlanResponse is a week with its slots in (day, meal number) order.
// MealsPerDay is the highest meal number present, so cleared slots do not
// lower it.
type MealPlanResponse struct {
	ID            uuid.UUID          `json:"id"`
	WeekStartDate string             `json:"week_start_date"`
	WeekEndDate   string             `json:"week_end_date"`
	Created       bool               `json:"created"`
	MealsPerDay   int                `json:"meals_per_day"`
	Slots         []MealSlotResponse `json:"slots"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewMealPlanResponse renders p and its loaded slots.
func NewMealPlanResponse(p *models.MealPlan, created bool) MealPlanResponse {
	resp := MealPlanResponse{
		ID:            p.ID,
		WeekStartDate: nutrition.FormatDate(p.WeekStartDate),
		WeekEndDate:   nutrition.FormatDate(nutrition.SlotDate(p.WeekStartDate, 6)),
		Created:       created,
		Slots:         make([]MealSlotResponse, 0, len(p.Slots)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for i := range p.Slots {
		slot := p.Slots[i]
		slot.MealPlan = p
		if slot.MealNumber > resp.MealsPerDay {
			resp.MealsPerDay = slot.MealNumber
		}
		resp.Slots = append(resp.Slots, NewMealSlotResponse(&slot))
	}
	return resp
}

// MealPlanSummary is a plan without its slots, used in listings.
type MealPlanSummary struct {
	ID            uuid.UUID `json:"id"`
	WeekStartDate string    `json:"week_start_date"`
	WeekEndDate   string    `json:"week_end_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewMealPlanSummary(p *models.MealPlan) MealPlanSummary {
	return MealPlanSummary{
		ID:            p.ID,
		WeekStartDate: nutrition.FormatDate(p.WeekStartDate),
		WeekEndDate:   nutrition.FormatDate(nutrition.SlotDate(p.WeekStartDate, 6)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// MealTarget is the calorie target for one meal number.
type MealTarget struct {
	MealNumber         int      `json:"meal_number"`
	MealName           string   `json:"meal_name"`
	DailyCalorieTarget *int     `json:"daily_calorie_target"`
	Percentage         *float64 `json:"percentage"`
	Calories           *float64 `json:"calories"`
}
