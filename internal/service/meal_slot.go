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

// MealSlotService edits slots. Every lookup is scoped through the owning
// plan's user, so foreign slots read as not found.
type MealSlotService struct {
	db *gorm.DB
}

var _ IMealSlotService = (*MealSlotService)(nil)

func NewMealSlotService(db *gorm.DB) *MealSlotService {
	return &MealSlotService{db: db}
}

// ListSlots returns the caller's slots ordered by plan, day and meal number,
// optionally restricted to one plan.
func (s *MealSlotService) ListSlots(ctx context.Context, userID uuid.UUID, planID *uuid.UUID) ([]models.MealSlot, error) {
	q := s.owned(s.db.WithContext(ctx), userID).
		Preload("MealPlan").
		Preload("Recipe").
		Order("meal_plan_id, day_of_week, meal_number")
	if planID != nil {
		q = q.Where("meal_plan_id = ?", *planID)
	}

	var slots []models.MealSlot
	if err := q.Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *MealSlotService) GetSlot(ctx context.Context, userID, slotID uuid.UUID) (*models.MealSlot, error) {
	return s.find(s.db.WithContext(ctx), userID, slotID)
}

// SlotsForDate returns one day of the week's plan without creating the plan.
func (s *MealSlotService) SlotsForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.MealSlot, error) {
	plan, err := findWeek(s.db.WithContext(ctx), userID, nutrition.WeekStart(date))
	if errors.Is(err, ErrNotFound) {
		return []models.MealSlot{}, nil
	}
	if err != nil {
		return nil, err
	}

	day := nutrition.WeekdayIndex(nutrition.Day(date))
	slots := make([]models.MealSlot, 0, len(plan.Slots)/7+1)
	for _, slot := range plan.Slots {
		if slot.DayOfWeek == day {
			slot.MealPlan = plan
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// UpdateSlot applies a partial update. The recipe must belong to the caller.
// A leftover's original must be another of the caller's slots and must not
// lead back to this slot. Clearing is_leftover drops the original.
func (s *MealSlotService) UpdateSlot(ctx context.Context, userID, slotID uuid.UUID, req *types.UpdateMealSlotRequest) (*models.MealSlot, error) {
	db := s.db.WithContext(ctx)
	slot, err := s.find(db, userID, slotID)
	if err != nil {
		return nil, err
	}

	if req.Recipe.Set {
		if req.Recipe.Value == nil {
			slot.RecipeID = nil
			slot.Recipe = nil
		} else {
			var recipe models.Recipe
			err := db.Where("id = ? AND user_id = ?", *req.Recipe.Value, userID).First(&recipe).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidRecipe
			}
			if err != nil {
				return nil, fmt.Errorf("failed to load recipe: %w", err)
			}
			slot.RecipeID = &recipe.ID
			slot.Recipe = &recipe
		}
	}

	if req.IsLeftover != nil {
		slot.IsLeftover = *req.IsLeftover
	}

	if req.OriginalMealSlot.Set {
		if req.OriginalMealSlot.Value == nil {
			slot.OriginalMealSlotID = nil
		} else {
			if !slot.IsLeftover {
				return nil, fmt.Errorf("%w: only leftover slots can reference an original", ErrInvalidOriginalSlot)
			}
			if err := s.checkOriginal(db, userID, slot.ID, *req.OriginalMealSlot.Value); err != nil {
				return nil, err
			}
			id := *req.OriginalMealSlot.Value
			slot.OriginalMealSlotID = &id
		}
	}

	if !slot.IsLeftover {
		slot.OriginalMealSlotID = nil
	}
	slot.OriginalMealSlot = nil

	if req.Notes != nil {
		slot.Notes = *req.Notes
	}

	if err := db.Omit(clause.Associations).Save(slot).Error; err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	return s.find(db, userID, slot.ID)
}

// DeleteSlot removes one slot. Leftovers pointing at it keep their flag but
// lose the reference.
func (s *MealSlotService) DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slot, err := s.find(tx, userID, slotID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.MealSlot{}).
			Where("original_meal_slot_id = ?", slot.ID).
			Update("original_meal_slot_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach leftovers: %w", err)
		}
		if err := tx.Delete(&models.MealSlot{}, "id = ?", slot.ID).Error; err != nil {
			return fmt.Errorf("failed to delete slot: %w", err)
		}
		return nil
	})
}

func (s *MealSlotService) checkOriginal(db *gorm.DB, userID, slotID, originalID uuid.UUID) error {
	if originalID == slotID {
		return fmt.Errorf("%w: a slot cannot be its own original", ErrInvalidOriginalSlot)
	}
	original, err := s.find(db, userID, originalID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: original slot does not exist", ErrInvalidOriginalSlot)
	}
	if err != nil {
		return err
	}

	visited := map[uuid.UUID]bool{original.ID: true}
	next := original.OriginalMealSlotID
	for next != nil {
		if *next == slotID {
			return fmt.Errorf("%w: leftover chain would form a cycle", ErrInvalidOriginalSlot)
		}
		if visited[*next] {
			break
		}
		visited[*next] = true

		var link models.MealSlot
		if err := db.Select("id", "original_meal_slot_id").Where("id = ?", *next).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return fmt.Errorf("failed to walk leftover chain: %w", err)
		}
		next = link.OriginalMealSlotID
	}
	return nil
}

func (s *MealSlotService) find(db *gorm.DB, userID, slotID uuid.UUID) (*models.MealSlot, error) {
	var slot models.MealSlot
	err := s.owned(db, userID).
		Preload("MealPlan").
		Preload("Recipe").
		Where("id = ?", slotID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot: %w", err)
	}
	return &slot, nil
}

func (s *MealSlotService) owned(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	plans := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.MealPlan{}).
		Select("id").
		Where("user_id = ?", userID)
	return db.Model(&models.MealSlot{}).Where("meal_plan_id IN (?)", plans)
}
