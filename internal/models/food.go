package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// Food is a USDA FoodData Central branded item. Nutrient values are per
// serving and may be missing.
type Food struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	FdcID           int64     `gorm:"uniqueIndex;not null" json:"fdc_id"`
	Description     string    `gorm:"size:500;not null;index" json:"description"`
	BrandOwner      string    `gorm:"size:200" json:"brand_owner"`
	Barcode         string    `gorm:"size:50;index" json:"barcode"`
	Ingredients     string    `gorm:"type:text" json:"ingredients"`
	Category        string    `gorm:"size:200" json:"category"`
	ServingSize     *float64  `json:"serving_size"`
	ServingSizeUnit string    `gorm:"size:20" json:"serving_size_unit"`
	Calories        *float64  `json:"calories"`
	Protein         *float64  `json:"protein"`
	Carbs           *float64  `json:"carbs"`
	Fats            *float64  `json:"fats"`
	Fiber           *float64  `json:"fiber"`
	Sugars          *float64  `json:"sugars"`
	Sodium          *float64  `json:"sodium"`
	CreatedAt       time.Time `json:"created_at"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// PerServing exposes the macro record to the nutrient math.
func (f *Food) PerServing() nutrition.PerServing {
	return nutrition.PerServing{
		ServingSize: f.ServingSize,
		Calories:    f.Calories,
		Protein:     f.Protein,
		Carbs:       f.Carbs,
		Fats:        f.Fats,
	}
}
