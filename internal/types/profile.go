package types

import (
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// UpdateProfileRequest represents a request to update a user's profile. Nil
// fields are left unchanged. Targets and meal maps may be cleared with an
// explicit null; maps replace the stored value wholesale.
type UpdateProfileRequest struct {
	Age                *int     `json:"age,omitempty"`
	WeightKg           *float64 `json:"weight_kg,omitempty"`
	HeightCm           *float64 `json:"height_cm,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	ActivityLevel      *string  `json:"activity_level,omitempty"`
	Goal               *string  `json:"goal,omitempty"`
	DietaryPreferences *string  `json:"dietary_preferences,omitempty"`
	Allergies          *string  `json:"allergies,omitempty"`
	Dislikes           *string  `json:"dislikes,omitempty"`

	DailyCalorieTarget Nullable[int]     `json:"daily_calorie_target"`
	DailyProteinTarget Nullable[float64] `json:"daily_protein_target"`
	DailyCarbsTarget   Nullable[float64] `json:"daily_carbs_target"`
	DailyFatsTarget    Nullable[float64] `json:"daily_fats_target"`

	MealsPerDay      *int                         `json:"meals_per_day,omitempty"`
	MealDistribution Nullable[map[string]float64] `json:"meal_distribution"`
	MealNames        Nullable[map[string]string]  `json:"meal_names"`
}

// ProfileResponse is the profile plus the values derived from it.
type ProfileResponse struct {
	*models.Profile
	BMR                 *float64             `json:"bmr"`
	TDEE                *float64             `json:"tdee"`
	ResolvedMealNames   []nutrition.MealName `json:"resolved_meal_names"`
	DefaultDistribution map[string]float64   `json:"default_distribution"`
}

// NewProfileResponse fills the derived fields for p.
func NewProfileResponse(p *models.Profile) ProfileResponse {
	cfg := p.MealConfig()
	return ProfileResponse{
		Profile:             p,
		BMR:                 p.BMR(),
		TDEE:                p.TDEE(),
		ResolvedMealNames:   nutrition.ResolveMealNames(cfg.Names, cfg.MealCount()),
		DefaultDistribution: nutrition.DefaultDistribution(cfg.MealCount()),
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
