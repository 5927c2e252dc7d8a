package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// ErrNonPositiveQuantity is returned by the save hook for quantity_grams <= 0.
var ErrNonPositiveQuantity = errors.New("quantity_grams must be greater than 0")

// FoodLog records a quantity of a food eaten on a date. The macro columns are
// derived and rewritten on every save; callers never set them.
type FoodLog struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;index:idx_food_logs_user_date,priority:1" json:"user_id"`
	FoodID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"food"`
	Food          *Food     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Date          time.Time `gorm:"type:date;not null;index:idx_food_logs_user_date,priority:2" json:"date"`
	MealType      string    `gorm:"size:20;not null" json:"meal_type"`
	QuantityGrams float64   `gorm:"not null" json:"quantity_grams"`
	Calories      int       `gorm:"not null" json:"calories"`
	Protein       float64   `gorm:"not null" json:"protein"`
	Carbs         float64   `gorm:"not null" json:"carbs"`
	Fats          float64   `gorm:"not null" json:"fats"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (l *FoodLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BeforeSave recomputes the derived macros from the referenced food. It runs
// on create and on Save, so quantity or food changes are always reflected.
func (l *FoodLog) BeforeSave(tx *gorm.DB) error {
	if l.QuantityGrams <= 0 {
		return ErrNonPositiveQuantity
	}
	l.Date = nutrition.Day(l.Date)

	if l.Food == nil || l.Food.ID != l.FoodID {
		var food Food
		if err := tx.Session(&gorm.Session{NewDB: true}).Where("id = ?", l.FoodID).First(&food).Error; err != nil {
			return fmt.Errorf("failed to load food for log: %w", err)
		}
		l.Food = &food
	}

	l.ApplyMacros(nutrition.ScaledMacros(l.Food.PerServing(), l.QuantityGrams))
	return nil
}

// ApplyMacros copies computed macros onto the entry.
func (l *FoodLog) ApplyMacros(m nutrition.Macros) {
	l.Calories = m.Calories
	l.Protein = m.Protein
	l.Carbs = m.Carbs
	l.Fats = m.Fats
}

// Macros returns the stored derived values.
func (l *FoodLog) Macros() nutrition.Macros {
	return nutrition.Macros{Calories: l.Calories, Protein: l.Protein, Carbs: l.Carbs, Fats: l.Fats}
}

// Label renders "<owner> - <food> on YYYY-MM-DD".
func (l *FoodLog) Label(owner string) string {
	food := ""
	if l.Food != nil {
		food = l.Food.Description
	}
	return fmt.Sprintf("%s - %s on %s", owner, food, nutrition.FormatDate(l.Date))
}
