package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

func newRecipeService(t *testing.T) (*service.RecipeService, *models.User, func(string, int) *models.Recipe) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	user, _ := testhelpers.CreateUser(t, db, "ana", nil)
	return service.NewRecipeService(db, service.NewEmbeddingService()), user, func(name string, kcal int) *models.Recipe {
		return testhelpers.CreateRecipe(t, db, user.ID, name, kcal)
	}
}

func TestCreateRecipe(t *testing.T) {
	svc, user, _ := newRecipeService(t)

	recipe, err := svc.CreateRecipe(context.Background(), user.ID, &types.CreateRecipeRequest{
		Name:            "  Lentil Soup ",
		Ingredients:     "lentils, carrot, onion",
		Steps:           "1. Simmer.",
		Calories:        420,
		Protein:         24,
		MealType:        "dinner",
		PrepTimeMinutes: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lentil Soup", recipe.Name)
	require.NotNil(t, recipe.Embedding)
	assert.Len(t, recipe.Embedding.Slice(), 3)

	_, err = svc.CreateRecipe(context.Background(), user.ID, &types.CreateRecipeRequest{Name: "Bad", MealType: "brunch"})
	assert.ErrorIs(t, err, service.ErrInvalidMealType)
	_, err = svc.CreateRecipe(context.Background(), user.ID, &types.CreateRecipeRequest{Name: "Bad", MealType: "lunch", Calories: -1})
	assert.ErrorIs(t, err, service.ErrInvalidRecipe)
}

func TestListRecipesNewestFirstAndScoped(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ana, _ := testhelpers.CreateUser(t, db, "ana", nil)
	ben, _ := testhelpers.CreateUser(t, db, "ben", nil)
	svc := service.NewRecipeService(db, nil)

	older := testhelpers.CreateRecipe(t, db, ana.ID, "Older", 300)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := testhelpers.CreateRecipe(t, db, ana.ID, "Newer", 300)
	testhelpers.CreateRecipe(t, db, ben.ID, "Ben's", 300)

	recipes, err := svc.ListRecipes(context.Background(), ana.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, newer.ID, recipes[0].ID)
	assert.Equal(t, older.ID, recipes[1].ID)

	_, err = svc.GetRecipe(context.Background(), ben.ID, newer.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateRecipe(t *testing.T) {
	svc, user, create := newRecipeService(t)
	recipe := create("Pasta", 600)

	name := "Whole Wheat Pasta"
	kcal := 550
	updated, err := svc.UpdateRecipe(context.Background(), user.ID, recipe.ID, &types.UpdateRecipeRequest{Name: &name, Calories: &kcal})
	require.NoError(t, err)
	assert.Equal(t, "Whole Wheat Pasta", updated.Name)
	assert.Equal(t, 550, updated.Calories)
	assert.Equal(t, "lunch", updated.MealType)

	_, err = svc.UpdateRecipe(context.Background(), uuid.New(), recipe.ID, &types.UpdateRecipeRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRecipeEmptiesSlots(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	user, _ := testhelpers.CreateUser(t, db, "ana", nil)
	recipe := testhelpers.CreateRecipe(t, db, user.ID, "Curry", 700)
	plan, _, err := service.NewMealPlanService(db).WeekForDate(context.Background(), user.ID, "2024-01-15")
	require.NoError(t, err)
	slots := service.NewMealSlotService(db)
	_, err = slots.UpdateSlot(context.Background(), user.ID, plan.Slots[2].ID, &types.UpdateMealSlotRequest{Recipe: types.SetUUID(recipe.ID)})
	require.NoError(t, err)

	require.NoError(t, service.NewRecipeService(db, nil).DeleteRecipe(context.Background(), user.ID, recipe.ID))

	slot, err := slots.GetSlot(context.Background(), user.ID, plan.Slots[2].ID)
	require.NoError(t, err)
	assert.Nil(t, slot.RecipeID)
	assert.Equal(t, "Monday Dinner: Empty", slot.String())

	assert.ErrorIs(t, service.NewRecipeService(db, nil).DeleteRecipe(context.Background(), user.ID, recipe.ID), service.ErrNotFound)
}

func TestExampleRecipes(t *testing.T) {
	svc, user, create := newRecipeService(t)
	create("Too Light", 300)
	create("Close Above", 570)
	create("Too Heavy", 700)
	create("Close Below", 450)
	exact := create("Exact", 500)

	recipes, err := svc.ExampleRecipes(context.Background(), user.ID, 500, 0)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, exact.ID, recipes[0].ID)
	assert.Equal(t, "Close Below", recipes[1].Name)
	assert.Equal(t, "Close Above", recipes[2].Name)

	narrow, err := svc.ExampleRecipes(context.Background(), user.ID, 500, 5)
	require.NoError(t, err)
	assert.Len(t, narrow, 1)

	_, err = svc.ExampleRecipes(context.Background(), user.ID, 0, 15)
	assert.ErrorIs(t, err, service.ErrInvalidRecipe)
}

func TestSimilarRecipesFallback(t *testing.T) {
	svc, user, create := newRecipeService(t)
	create("Far", 900)
	base := create("Base", 500)
	create("Mid", 380)
	create("Near", 520)

	recipes, err := svc.SimilarRecipes(context.Background(), user.ID, base.ID, 0)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	names := []string{recipes[0].Name, recipes[1].Name, recipes[2].Name}
	assert.Equal(t, []string{"Near", "Mid", "Far"}, names)
	for _, r := range recipes {
		assert.NotEqual(t, base.ID, r.ID)
	}

	limited, err := svc.SimilarRecipes(context.Background(), user.ID, base.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Near", limited[0].Name)
}

func TestEmbeddingIsDeterministic(t *testing.T) {
	svc := service.NewEmbeddingService()
	a, err := svc.GenerateEmbedding("Chicken Salad")
	require.NoError(t, err)
	b, err := svc.GenerateEmbedding("chicken salad")
	require.NoError(t, err)
	assert.Equal(t, a.Slice(), b.Slice())

	zero, err := svc.GenerateEmbedding("")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0}, zero.Slice())
}

type memoryStore struct {
	objects map[string][]byte
	failPut bool
}

func (m *memoryStore) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStore) DeleteObject(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?sig=test", nil
}

func TestImageService(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}}
	svc := service.NewImageService(store)
	recipeID := uuid.New()

	key, err := svc.UploadRecipeImage(context.Background(), recipeID, "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/"+recipeID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, []byte("png-bytes"), store.objects[key])

	url, err := svc.ImageURL(context.Background(), key)
	require.NoError(t, err)
	assert.Contains(t, url.URL, key)

	require.NoError(t, svc.DeleteImage(context.Background(), key))
	assert.Empty(t, store.objects)

	_, err = svc.UploadRecipeImage(context.Background(), recipeID, "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrInvalidImage)

	_, err = svc.ImageURL(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = service.NewImageService(nil).UploadRecipeImage(context.Background(), recipeID, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrStorageUnavailable)

	store.failPut = true
	_, err = svc.UploadRecipeImage(context.Background(), recipeID, "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
