package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const slotBatchSize = 100

// MealPlanService resolves users' weeks and owns slot materialization.
type MealPlanService struct {
	db *gorm.DB
}

var _ IMealPlanService = (*MealPlanService)(nil)

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// GetOrCreateWeek returns the plan for the Monday-aligned week containing
// target, creating it and its slot grid on first access. created reports
// whether this call inserted the plan.
func (s *MealPlanService) GetOrCreateWeek(ctx context.Context, userID uuid.UUID, target time.Time) (*models.MealPlan, bool, error) {
	weekStart := nutrition.WeekStart(target)
	db := s.db.WithContext(ctx)

	plan, err := findWeek(db, userID, weekStart)
	if err == nil {
		return plan, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	cfg, err := mealConfigFor(db, userID)
	if err != nil {
		return nil, false, err
	}

	plan = &models.MealPlan{UserID: userID, WeekStartDate: weekStart}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(plan).Error; err != nil {
			return err
		}
		slots, err := MaterializeSlots(tx, plan, cfg)
		if err != nil {
			return err
		}
		plan.Slots = slots
		return nil
	})
	if database.IsUniqueViolation(err) {
		// Lost the race for this week; the winner's row is authoritative.
		existing, ferr := findWeek(db, userID, weekStart)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create meal plan: %w", err)
	}

	log.Printf("Created meal plan %s for user %s, week of %s", plan.ID, userID, nutrition.FormatDate(weekStart))
	return plan, true, nil
}

// CurrentWeek resolves the week containing the server's today.
func (s *MealPlanService) CurrentWeek(ctx context.Context, userID uuid.UUID) (*models.MealPlan, bool, error) {
	return s.GetOrCreateWeek(ctx, userID, nutrition.Today())
}

// WeekForDate resolves the week containing a YYYY-MM-DD date.
func (s *MealPlanService) WeekForDate(ctx context.Context, userID uuid.UUID, date string) (*models.MealPlan, bool, error) {
	if date == "" {
		return nil, false, fmt.Errorf("%w: date parameter is required", ErrInvalidDate)
	}
	target, err := nutrition.ParseDate(date)
	if err != nil {
		return nil, false, ErrInvalidDate
	}
	return s.GetOrCreateWeek(ctx, userID, target)
}

// ListPlans returns the user's plans, newest week first, without slots.
func (s *MealPlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start_date DESC").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

func (s *MealPlanService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := withSlots(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	return &plan, nil
}

// DeletePlan removes the plan and its slots. Leftover links from other plans
// into this one are cleared first.
func (s *MealPlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.MealPlan
		err := tx.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		slotIDs := tx.Model(&models.MealSlot{}).Select("id").Where("meal_plan_id = ?", plan.ID)
		if err := tx.Model(&models.MealSlot{}).
			Where("original_meal_slot_id IN (?)", slotIDs).
			Update("original_meal_slot_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach leftovers: %w", err)
		}
		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.MealSlot{}).Error; err != nil {
			return fmt.Errorf("failed to delete slots: %w", err)
		}
		if err := tx.Delete(&plan).Error; err != nil {
			return fmt.Errorf("failed to delete meal plan: %w", err)
		}
		return nil
	})
}

// MealTarget reports the calorie target for one meal number from the
// caller's profile. Calories is nil when it cannot be computed.
func (s *MealPlanService) MealTarget(ctx context.Context, userID uuid.UUID, mealNumber int) (*types.MealTarget, error) {
	if !nutrition.ValidMealsPerDay(mealNumber) {
		return nil, ErrInvalidMealKey
	}
	profile, err := loadProfile(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	cfg := profile.MealConfig()
	target := &types.MealTarget{
		MealNumber:         mealNumber,
		MealName:           nutrition.ResolveMealName(cfg.Names, cfg.MealCount(), mealNumber),
		DailyCalorieTarget: cfg.DailyCalories,
	}
	if pct, ok := cfg.Distribution[nutrition.MealKey(mealNumber)]; ok {
		target.Percentage = &pct
	}
	if kcal, ok := nutrition.MealCalories(cfg, mealNumber); ok {
		target.Calories = &kcal
	}
	return target, nil
}

// MaterializeSlots fills a plan with its day x meal grid. A plan that
// already has slots is returned as is. tx must be the caller's transaction.
func MaterializeSlots(tx *gorm.DB, plan *models.MealPlan, cfg nutrition.MealConfig) ([]models.MealSlot, error) {
	var existing int64
	if err := tx.Model(&models.MealSlot{}).Where("meal_plan_id = ?", plan.ID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to count slots: %w", err)
	}
	if existing > 0 {
		var slots []models.MealSlot
		if err := tx.Where("meal_plan_id = ?", plan.ID).Order("day_of_week, meal_number").Find(&slots).Error; err != nil {
			return nil, fmt.Errorf("failed to load slots: %w", err)
		}
		return slots, nil
	}

	names := nutrition.ResolveMealNames(cfg.Names, cfg.MealCount())
	slots := make([]models.MealSlot, 0, 7*len(names))
	for day := 0; day < 7; day++ {
		for _, meal := range names {
			slots = append(slots, models.MealSlot{
				MealPlanID: plan.ID,
				DayOfWeek:  day,
				MealNumber: meal.Number,
				MealName:   meal.Name,
			})
		}
	}

	if err := tx.Omit(clause.Associations).CreateInBatches(&slots, slotBatchSize).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func findWeek(db *gorm.DB, userID uuid.UUID, weekStart time.Time) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := withSlots(db).
		Where("user_id = ? AND week_start_date = ?", userID, weekStart).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	return &plan, nil
}

func withSlots(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week, meal_number")
		}).
		Preload("Slots.Recipe")
}

// mealConfigFor falls back to the registration defaults when the user has no
// profile row.
func mealConfigFor(db *gorm.DB, userID uuid.UUID) (nutrition.MealConfig, error) {
	profile, err := loadProfile(db, userID)
	if errors.Is(err, ErrNotFound) {
		return models.NewProfile(userID).MealConfig(), nil
	}
	if err != nil {
		return nutrition.MealConfig{}, err
	}
	return profile.MealConfig(), nil
}
