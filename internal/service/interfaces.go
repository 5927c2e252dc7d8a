package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error)
}

// IMealPlanService resolves and manages weekly plans
type IMealPlanService interface {
	GetOrCreateWeek(ctx context.Context, userID uuid.UUID, target time.Time) (*models.MealPlan, bool, error)
	CurrentWeek(ctx context.Context, userID uuid.UUID) (*models.MealPlan, bool, error)
	WeekForDate(ctx context.Context, userID uuid.UUID, date string) (*models.MealPlan, bool, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*models.MealPlan, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
	MealTarget(ctx context.Context, userID uuid.UUID, mealNumber int) (*types.MealTarget, error)
}

// IMealSlotService edits the slots of a user's plans
type IMealSlotService interface {
	ListSlots(ctx context.Context, userID uuid.UUID, planID *uuid.UUID) ([]models.MealSlot, error)
	GetSlot(ctx context.Context, userID, slotID uuid.UUID) (*models.MealSlot, error)
	UpdateSlot(ctx context.Context, userID, slotID uuid.UUID, req *types.UpdateMealSlotRequest) (*models.MealSlot, error)
	DeleteSlot(ctx context.Context, userID, slotID uuid.UUID) error
	SlotsForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.MealSlot, error)
}

// IFoodService reads the imported food table
type IFoodService interface {
	SearchFoods(ctx context.Context, query string) ([]models.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
}

// IFoodLogService records and aggregates food intake
type IFoodLogService interface {
	CreateLog(ctx context.Context, userID uuid.UUID, req *types.CreateFoodLogRequest) (*models.FoodLog, error)
	GetLog(ctx context.Context, userID, logID uuid.UUID) (*models.FoodLog, error)
	ListLogs(ctx context.Context, userID uuid.UUID, date string) ([]models.FoodLog, error)
	UpdateLog(ctx context.Context, userID, logID uuid.UUID, req *types.UpdateFoodLogRequest) (*models.FoodLog, error)
	DeleteLog(ctx context.Context, userID, logID uuid.UUID) error
	DailyTotals(ctx context.Context, userID uuid.UUID, date string) (*types.DailyTotals, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	ExampleRecipes(ctx context.Context, userID uuid.UUID, calories int, tolerance float64) ([]models.Recipe, error)
	SimilarRecipes(ctx context.Context, userID, id uuid.UUID, limit int) ([]models.Recipe, error)
	SetImageKey(ctx context.Context, userID, id uuid.UUID, key string) (*models.Recipe, error)
}

// ILLMService generates recipe drafts
type ILLMService interface {
	GenerateRecipe(ctx context.Context, prompt *RecipePrompt) (*types.GeneratedRecipe, error)
	GetDraft(ctx context.Context, draftID string) (*types.GeneratedRecipe, error)
}

// IImageService stores recipe images
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error)
	ImageURL(ctx context.Context, key string) (*types.RecipeImageURL, error)
	DeleteImage(ctx context.Context, key string) error
}
