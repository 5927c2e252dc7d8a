package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Meal type tags shared by recipes and food logs.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// MealTypes lists the known tags in display order.
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID              uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name            string           `gorm:"size:200;not null" json:"name"`
	Ingredients     string           `gorm:"type:text" json:"ingredients"`
	Steps           string           `gorm:"type:text" json:"steps"`
	Calories        int              `gorm:"not null;default:0" json:"calories"`
	Protein         float64          `gorm:"not null;default:0" json:"protein"`
	Carbs           float64          `gorm:"not null;default:0" json:"carbs"`
	Fats            float64          `gorm:"not null;default:0" json:"fats"`
	PrepTimeMinutes int              `gorm:"not null;default:0" json:"prep_time_minutes"`
	MealType        string           `gorm:"size:20;not null" json:"meal_type"`
	MealNumber      *int             `json:"meal_number,omitempty"`
	ImageKey        string           `gorm:"size:255" json:"-"`
	Embedding       *pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
