package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// CreateUser inserts a user with a default profile. mutate may adjust the
// profile before it is written.
func CreateUser(t *testing.T, db *gorm.DB, name string, mutate func(*models.Profile)) (*models.User, *models.Profile) {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := models.NewProfile(user.ID)
	if mutate != nil {
		mutate(profile)
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return user, profile
}

// FoodFixture is a 100 g serving of 200 kcal, 10 g protein, 25 g carbs, 8 g fat.
func FoodFixture(description string) *models.Food {
	return &models.Food{
		FdcID:           int64(uuid.New().ID()),
		Description:     description,
		BrandOwner:      "Test Brand",
		Category:        "Test Category",
		ServingSize:     Float(100),
		ServingSizeUnit: "g",
		Calories:        Float(200),
		Protein:         Float(10),
		Carbs:           Float(25),
		Fats:            Float(8),
	}
}

// CreateFood inserts food, defaulting to FoodFixture when nil.
func CreateFood(t *testing.T, db *gorm.DB, food *models.Food) *models.Food {
	t.Helper()
	if food == nil {
		food = FoodFixture("Test Food Item")
	}
	if food.FdcID == 0 {
		food.FdcID = int64(uuid.New().ID())
	}
	if err := db.Create(food).Error; err != nil {
		t.Fatalf("failed to create food: %v", err)
	}
	return food
}

// CreateRecipe inserts a lunch recipe owned by userID.
func CreateRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, calories int) *models.Recipe {
	t.Helper()
	embedding := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
	recipe := &models.Recipe{
		UserID:          userID,
		Name:            name,
		Ingredients:     "Ingredient 1\nIngredient 2",
		Steps:           "Step 1\nStep 2",
		Calories:        calories,
		Protein:         30,
		Carbs:           45,
		Fats:            15,
		PrepTimeMinutes: 30,
		MealType:        models.MealTypeLunch,
		Embedding:       &embedding,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}
