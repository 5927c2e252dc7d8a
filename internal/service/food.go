package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
)

const (
	minSearchLength  = 2
	maxSearchResults = 20
)

// FoodService reads the imported USDA food table.
type FoodService struct {
	db *gorm.DB
}

var _ IFoodService = (*FoodService)(nil)

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// SearchFoods matches description or brand case-insensitively, sorted by
// description.
func (s *FoodService) SearchFoods(ctx context.Context, query string) ([]models.Food, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return nil, ErrQueryTooShort
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var foods []models.Food
	if err := s.db.WithContext(ctx).
		Where("LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(brand_owner) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("description ASC").
		Limit(maxSearchResults).
		Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return foods, nil
}

func (s *FoodService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load food: %w", err)
	}
	return &food, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
