package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const (
	defaultTolerance  = 15.0
	maxExampleRecipes = 10
	maxSimilarRecipes = 10
)

// RecipeService handles recipe operations
type RecipeService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, embeddingService EmbeddingServiceInterface) *RecipeService {
	return &RecipeService{
		db:               db,
		embeddingService: embeddingService,
	}
}

// CreateRecipe saves a recipe for userID
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{
		UserID:          userID,
		Name:            strings.TrimSpace(req.Name),
		Ingredients:     req.Ingredients,
		Steps:           req.Steps,
		Calories:        req.Calories,
		Protein:         req.Protein,
		Carbs:           req.Carbs,
		Fats:            req.Fats,
		PrepTimeMinutes: req.PrepTimeMinutes,
		MealType:        req.MealType,
		MealNumber:      req.MealNumber,
	}
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	s.embed(recipe)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// GetRecipe retrieves one of userID's recipes
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update and refreshes the embedding
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		recipe.Name = strings.TrimSpace(*req.Name)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.Steps != nil {
		recipe.Steps = *req.Steps
	}
	if req.Calories != nil {
		recipe.Calories = *req.Calories
	}
	if req.Protein != nil {
		recipe.Protein = *req.Protein
	}
	if req.Carbs != nil {
		recipe.Carbs = *req.Carbs
	}
	if req.Fats != nil {
		recipe.Fats = *req.Fats
	}
	if req.PrepTimeMinutes != nil {
		recipe.PrepTimeMinutes = *req.PrepTimeMinutes
	}
	if req.MealType != nil {
		recipe.MealType = *req.MealType
	}
	if req.MealNumber != nil {
		recipe.MealNumber = req.MealNumber
	}
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}
	s.embed(recipe)

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe removes the recipe; slots that used it become empty
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.MealSlot{}).
			Where("recipe_id = ?", recipe.ID).
			Update("recipe_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear slots: %w", err)
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes returns userID's recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ExampleRecipes returns saved recipes whose calories fall within
// tolerance percent of the target, closest first.
func (s *RecipeService) ExampleRecipes(ctx context.Context, userID uuid.UUID, calories int, tolerance float64) ([]models.Recipe, error) {
	if calories <= 0 {
		return nil, fmt.Errorf("%w: calories must be positive", ErrInvalidRecipe)
	}
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	low := float64(calories) * (1 - tolerance/100)
	high := float64(calories) * (1 + tolerance/100)

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND calories BETWEEN ? AND ?", userID, low, high).
		Order(orderByExpr("ABS(calories - ?) ASC, created_at DESC", calories)).
		Limit(maxExampleRecipes).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find example recipes: %w", err)
	}
	return recipes, nil
}

// SimilarRecipes ranks the caller's other recipes by embedding distance on
// Postgres. Other databases fall back to same meal type, closest calories.
func (s *RecipeService) SimilarRecipes(ctx context.Context, userID, id uuid.UUID, limit int) ([]models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxSimilarRecipes {
		limit = maxSimilarRecipes
	}

	q := s.db.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, recipe.ID).
		Limit(limit)

	if s.db.Dialector.Name() == "postgres" && recipe.Embedding != nil {
		q = q.Where("embedding IS NOT NULL").
			Order(orderByExpr("embedding <=> ?", *recipe.Embedding))
	} else {
		q = q.Where("meal_type = ?", recipe.MealType).
			Order(orderByExpr("ABS(calories - ?) ASC, created_at DESC", recipe.Calories))
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find similar recipes: %w", err)
	}
	return recipes, nil
}

// SetImageKey records the storage key of the recipe's uploaded image
func (s *RecipeService) SetImageKey(ctx context.Context, userID, id uuid.UUID, key string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(recipe).Update("image_key", key).Error; err != nil {
		return nil, fmt.Errorf("failed to store image key: %w", err)
	}
	recipe.ImageKey = key
	return recipe, nil
}

// orderByExpr builds an ORDER BY with bound parameters. Order drops a bare
// gorm.Expr, so the expression goes through clause.OrderBy.
func orderByExpr(sql string, vars ...interface{}) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{SQL: sql, Vars: vars, WithoutParentheses: true}}
}

func (s *RecipeService) embed(recipe *models.Recipe) {
	if s.embeddingService == nil {
		return
	}
	vec, err := s.embeddingService.GenerateEmbedding(recipeText(recipe))
	if err != nil {
		log.Printf("Failed to embed recipe %q: %v", recipe.Name, err)
		return
	}
	recipe.Embedding = &vec
}

func validateRecipe(r *models.Recipe) error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	case len(r.Name) > 200:
		return fmt.Errorf("%w: name must be at most 200 characters", ErrInvalidRecipe)
	case !models.ValidMealType(r.MealType):
		return ErrInvalidMealType
	case r.Calories < 0:
		return fmt.Errorf("%w: calories must not be negative", ErrInvalidRecipe)
	case r.Protein < 0 || r.Carbs < 0 || r.Fats < 0:
		return fmt.Errorf("%w: macros must not be negative", ErrInvalidRecipe)
	case r.PrepTimeMinutes < 0:
		return fmt.Errorf("%w: prep_time_minutes must not be negative", ErrInvalidRecipe)
	case r.MealNumber != nil && !nutrition.ValidMealsPerDay(*r.MealNumber):
		return ErrInvalidMealKey
	}
	return nil
}
