package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// MealDistribution maps a meal number key ("1".."6") to a percentage of the
// daily calorie target.
type MealDistribution map[string]float64

// MealNames maps a meal number key to a display label.
type MealNames map[string]string

// Profile is created together with its user and holds everything the
// planner needs to size and label a week.
type Profile struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`

	Age           *int     `json:"age"`
	WeightKg      *float64 `json:"weight_kg"`
	HeightCm      *float64 `json:"height_cm"`
	Gender        string   `gorm:"size:10" json:"gender"`
	ActivityLevel string   `gorm:"size:20;default:'sedentary'" json:"activity_level"`
	Goal          string   `gorm:"size:20;default:'maintain_weight'" json:"goal"`

	DietaryPreferences string `gorm:"type:text" json:"dietary_preferences"`
	Allergies          string `gorm:"type:text" json:"allergies"`
	Dislikes           string `gorm:"type:text" json:"dislikes"`

	DailyCalorieTarget *int     `json:"daily_calorie_target"`
	DailyProteinTarget *float64 `json:"daily_protein_target"`
	DailyCarbsTarget   *float64 `json:"daily_carbs_target"`
	DailyFatsTarget    *float64 `json:"daily_fats_target"`

	MealsPerDay      int                                  `gorm:"not null;default:3" json:"meals_per_day"`
	MealDistribution datatypes.JSONType[MealDistribution] `json:"meal_distribution"`
	MealNames        datatypes.JSONType[MealNames]        `json:"meal_names"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.MealsPerDay == 0 {
		p.MealsPerDay = nutrition.DefaultMealsPerDay
	}
	return nil
}

// NewProfile returns the defaults a freshly registered user starts with.
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:        userID,
		ActivityLevel: "sedentary",
		Goal:          "maintain_weight",
		MealsPerDay:   nutrition.DefaultMealsPerDay,
	}
}

// MealConfig extracts the planner inputs.
func (p *Profile) MealConfig() nutrition.MealConfig {
	return nutrition.MealConfig{
		MealsPerDay:   p.MealsPerDay,
		Distribution:  p.MealDistribution.Data(),
		Names:         p.MealNames.Data(),
		DailyCalories: p.DailyCalorieTarget,
	}
}

// SetMealDistribution replaces the stored distribution; nil clears it.
func (p *Profile) SetMealDistribution(d MealDistribution) {
	p.MealDistribution = datatypes.NewJSONType(d)
}

// SetMealNames replaces the stored names; nil clears them.
func (p *Profile) SetMealNames(n MealNames) {
	p.MealNames = datatypes.NewJSONType(n)
}

// BMR is nil until age, weight, height and gender are all known.
func (p *Profile) BMR() *float64 {
	if p.Age == nil || p.WeightKg == nil || p.HeightCm == nil || p.Gender == "" {
		return nil
	}
	v := nutrition.BMR(*p.WeightKg, *p.HeightCm, *p.Age, p.Gender)
	return &v
}

func (p *Profile) TDEE() *float64 {
	bmr := p.BMR()
	if bmr == nil {
		return nil
	}
	v, ok := nutrition.TDEE(*bmr, p.ActivityLevel)
	if !ok {
		return nil
	}
	return &v
}
