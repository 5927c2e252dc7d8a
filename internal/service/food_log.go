package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodLogService records intake and folds it into daily totals. Derived
// macros are computed by the model's save hook, never here.
type FoodLogService struct {
	db *gorm.DB
}

var _ IFoodLogService = (*FoodLogService)(nil)

func NewFoodLogService(db *gorm.DB) *FoodLogService {
	return &FoodLogService{db: db}
}

func (s *FoodLogService) CreateLog(ctx context.Context, userID uuid.UUID, req *types.CreateFoodLogRequest) (*models.FoodLog, error) {
	if !models.ValidMealType(req.MealType) {
		return nil, ErrInvalidMealType
	}
	if req.QuantityGrams <= 0 {
		return nil, ErrInvalidQuantity
	}
	day, err := parseOptionalDate(req.Date)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	food, err := loadFood(db, req.Food)
	if err != nil {
		return nil, err
	}

	entry := &models.FoodLog{
		UserID:        userID,
		FoodID:        food.ID,
		Food:          food,
		Date:          day,
		MealType:      req.MealType,
		QuantityGrams: req.QuantityGrams,
	}
	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create food log: %w", err)
	}
	return entry, nil
}

func (s *FoodLogService) GetLog(ctx context.Context, userID, logID uuid.UUID) (*models.FoodLog, error) {
	return findLog(s.db.WithContext(ctx), userID, logID)
}

// ListLogs returns the caller's logs, newest date first. A non-empty date
// restricts the result to that day.
func (s *FoodLogService) ListLogs(ctx context.Context, userID uuid.UUID, date string) ([]models.FoodLog, error) {
	q := s.db.WithContext(ctx).
		Preload("Food").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC")
	if date != "" {
		day, err := nutrition.ParseDate(date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		q = q.Where("date = ?", day)
	}

	var logs []models.FoodLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	return logs, nil
}

// UpdateLog applies a partial update; the save hook recomputes macros from
// the current food.
func (s *FoodLogService) UpdateLog(ctx context.Context, userID, logID uuid.UUID, req *types.UpdateFoodLogRequest) (*models.FoodLog, error) {
	if req.MealType != nil && !models.ValidMealType(*req.MealType) {
		return nil, ErrInvalidMealType
	}
	if req.QuantityGrams != nil && *req.QuantityGrams <= 0 {
		return nil, ErrInvalidQuantity
	}

	db := s.db.WithContext(ctx)
	entry, err := findLog(db, userID, logID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		day, err := parseOptionalDate(*req.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = day
	}
	if req.Food != nil {
		food, err := loadFood(db, *req.Food)
		if err != nil {
			return nil, err
		}
		entry.FoodID = food.ID
		entry.Food = food
	}
	if req.MealType != nil {
		entry.MealType = *req.MealType
	}
	if req.QuantityGrams != nil {
		entry.QuantityGrams = *req.QuantityGrams
	}

	if err := db.Omit(clause.Associations).Save(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update food log: %w", err)
	}
	return entry, nil
}

func (s *FoodLogService) DeleteLog(ctx context.Context, userID, logID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", logID, userID).Delete(&models.FoodLog{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete food log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DailyTotals sums the stored macros for one date, today when empty.
func (s *FoodLogService) DailyTotals(ctx context.Context, userID uuid.UUID, date string) (*types.DailyTotals, error) {
	day, err := parseOptionalDate(date)
	if err != nil {
		return nil, err
	}

	var logs []models.FoodLog
	if err := s.db.WithContext(ctx).
		Select("meal_type", "calories", "protein", "carbs", "fats").
		Where("user_id = ? AND date = ?", userID, day).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load food logs: %w", err)
	}

	totals := SumDay(day, logs)
	return &totals, nil
}

// SumDay folds logs into totals and per-meal-type subtotals. Every meal
// type is present in ByMeal.
func SumDay(day time.Time, logs []models.FoodLog) types.DailyTotals {
	byMeal := make(map[string]nutrition.Macros, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		byMeal[mt] = nutrition.Macros{}
	}

	var total nutrition.Macros
	for i := range logs {
		m := logs[i].Macros()
		total = total.Add(m)
		byMeal[logs[i].MealType] = byMeal[logs[i].MealType].Add(m)
	}

	for mt, m := range byMeal {
		byMeal[mt] = m.Rounded()
	}
	return types.DailyTotals{
		Date:   nutrition.FormatDate(day),
		Totals: total.Rounded(),
		ByMeal: byMeal,
	}
}

func parseOptionalDate(date string) (time.Time, error) {
	if date == "" {
		return nutrition.Today(), nil
	}
	day, err := nutrition.ParseDate(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

func loadFood(db *gorm.DB, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	err := db.Where("id = ?", id).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidFood
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load food: %w", err)
	}
	return &food, nil
}

func findLog(db *gorm.DB, userID, logID uuid.UUID) (*models.FoodLog, error) {
	var entry models.FoodLog
	err := db.Preload("Food").Where("id = ? AND user_id = ?", logID, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load food log: %w", err)
	}
	return &entry, nil
}
