package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
)

// MealPlan is one user's Monday-aligned week. (user_id, week_start_date) is
// unique; concurrent first access relies on that index.
type MealPlan struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_meal_plans_user_week,priority:1" json:"user_id"`
	WeekStartDate time.Time  `gorm:"type:date;not null;uniqueIndex:idx_meal_plans_user_week,priority:2" json:"week_start_date"`
	Slots         []MealSlot `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.WeekStartDate = nutrition.Day(p.WeekStartDate)
	return nil
}

// Label renders "<owner>'s plan for week of YYYY-MM-DD".
func (p *MealPlan) Label(owner string) string {
	return fmt.Sprintf("%s's plan for week of %s", owner, nutrition.FormatDate(p.WeekStartDate))
}

// MealSlot is one (day, meal number) cell of a plan.
type MealSlot struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	MealPlanID         uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_meal_slots_plan_day_meal,priority:1" json:"meal_plan"`
	MealPlan           *MealPlan  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DayOfWeek          int        `gorm:"not null;uniqueIndex:idx_meal_slots_plan_day_meal,priority:2;check:chk_meal_slots_day,day_of_week >= 0 AND day_of_week <= 6" json:"day_of_week"`
	MealNumber         int        `gorm:"not null;uniqueIndex:idx_meal_slots_plan_day_meal,priority:3;check:chk_meal_slots_meal_number,meal_number >= 1" json:"meal_number"`
	MealName           string     `gorm:"size:50;not null" json:"meal_name"`
	RecipeID           *uuid.UUID `gorm:"type:varchar(36);index" json:"recipe"`
	Recipe             *Recipe    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	IsLeftover         bool       `gorm:"not null" json:"is_leftover"`
	OriginalMealSlotID *uuid.UUID `gorm:"type:varchar(36);index" json:"original_meal_slot"`
	OriginalMealSlot   *MealSlot  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Notes              string     `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (s *MealSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DayName is the weekday label for DayOfWeek.
func (s *MealSlot) DayName() string {
	return nutrition.DayName(s.DayOfWeek)
}

// Date derives the calendar date from the owning plan. It is zero unless
// MealPlan is loaded.
func (s *MealSlot) Date() time.Time {
	if s.MealPlan == nil {
		return time.Time{}
	}
	return nutrition.SlotDate(s.MealPlan.WeekStartDate, s.DayOfWeek)
}

// String renders "Monday Breakfast: Empty" or the assigned recipe's name.
func (s *MealSlot) String() string {
	content := "Empty"
	if s.Recipe != nil {
		content = s.Recipe.Name
	}
	return fmt.Sprintf("%s %s: %s", s.DayName(), s.MealName, content)
}
