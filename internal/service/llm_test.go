package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const validRecipeJSON = `{"name":"Oatmeal Bowl","ingredients":"oats, milk, banana","steps":"1. Boil. 2. Stir.","calories":480,"protein":18.25,"carbs":70,"fats":12,"prep_time_minutes":10,"meal_type":"breakfast"}`

// fakeLLM answers chat completions with the given contents in order.
func fakeLLM(t *testing.T, contents ...string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req service.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)

		i := int(atomic.AddInt32(&calls, 1)) - 1
		content := contents[len(contents)-1]
		if i < len(contents) {
			content = contents[i]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newLLM(url string, rdb *redis.Client) *service.LLMService {
	return service.NewLLMService(&config.Config{LLMAPIURL: url, LLMModel: "test-model"}, rdb)
}

func breakfastPrompt() *service.RecipePrompt {
	return &service.RecipePrompt{MealType: "breakfast", AvailableTime: 15}
}

func TestGenerateRecipeFirstAttempt(t *testing.T) {
	server, calls := fakeLLM(t, validRecipeJSON)

	recipe, err := newLLM(server.URL, nil).GenerateRecipe(context.Background(), breakfastPrompt())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "Oatmeal Bowl", recipe.Name)
	assert.Equal(t, 480, recipe.Calories)
	assert.Equal(t, 18.3, recipe.Protein)
	assert.Equal(t, "breakfast", recipe.MealType)
	assert.NotEmpty(t, recipe.DraftID)
}

func TestGenerateRecipeCorrectiveRetry(t *testing.T) {
	server, calls := fakeLLM(t, "Sure! Here is a recipe: Oatmeal Bowl with oats", "```json\n"+validRecipeJSON+"\n```")

	recipe, err := newLLM(server.URL, nil).GenerateRecipe(context.Background(), breakfastPrompt())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Equal(t, "Oatmeal Bowl", recipe.Name)
}

func TestGenerateRecipeFailsAfterRetry(t *testing.T) {
	server, calls := fakeLLM(t, "not json", `{"name":"Missing fields"}`)

	_, err := newLLM(server.URL, nil).GenerateRecipe(context.Background(), breakfastPrompt())
	assert.ErrorIs(t, err, service.ErrGenerationFailed)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGenerateRecipeAcceptsListFields(t *testing.T) {
	server, _ := fakeLLM(t, `{"name":"Toast","ingredients":["bread","butter"],"steps":["Toast","Spread"],"calories":200,"protein":5,"carbs":30,"fats":7,"prep_time_minutes":5,"meal_type":"brunch"}`)

	recipe, err := newLLM(server.URL, nil).GenerateRecipe(context.Background(), breakfastPrompt())
	require.NoError(t, err)
	assert.Equal(t, "bread\nbutter", recipe.Ingredients)
	assert.Equal(t, "breakfast", recipe.MealType)
}

func TestGenerateRecipeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newLLM(server.URL, nil).GenerateRecipe(context.Background(), breakfastPrompt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGetDraftWithoutRedis(t *testing.T) {
	_, err := newLLM("http://unused", nil).GetDraft(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDraftCache(t *testing.T) {
	// Skip this test if no Redis is available
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_HOST not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_HOST") + ":6379"})
	defer rdb.Close()

	server, _ := fakeLLM(t, validRecipeJSON)
	svc := newLLM(server.URL, rdb)

	recipe, err := svc.GenerateRecipe(context.Background(), breakfastPrompt())
	require.NoError(t, err)

	draft, err := svc.GetDraft(context.Background(), recipe.DraftID)
	require.NoError(t, err)
	assert.Equal(t, recipe.Name, draft.Name)

	ttl, err := rdb.TTL(context.Background(), "recipe:draft:"+recipe.DraftID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Hours(), 23.0)
}

func TestBuildRecipePrompt(t *testing.T) {
	profile := models.NewProfile(uuid.New())
	profile.Goal = "lose_weight"
	profile.DietaryPreferences = "vegetarian"
	profile.DailyCalorieTarget = testhelpers.Int(2400)
	profile.SetMealDistribution(models.MealDistribution{"1": 20, "2": 35, "3": 30, "4": 15})

	t.Run("distribution entry for meal number", func(t *testing.T) {
		prompt, err := service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{
			MealType: "lunch", AvailableTime: 30, MealNumber: testhelpers.Int(2),
		})
		require.NoError(t, err)
		require.NotNil(t, prompt.TargetCalories)
		assert.InDelta(t, 840.0, *prompt.TargetCalories, 0.0001)

		text := prompt.Text()
		assert.Contains(t, text, "Goal: lose_weight")
		assert.Contains(t, text, "Dietary preferences: vegetarian")
		assert.Contains(t, text, "Target calories: about 840 kcal")
		assert.Contains(t, text, "Available time: 30 minutes")
	})

	t.Run("explicit percentage wins", func(t *testing.T) {
		pct := 20.0
		prompt, err := service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{
			MealType: "breakfast", AvailableTime: 10, MealNumber: testhelpers.Int(2), MealPercentage: &pct,
		})
		require.NoError(t, err)
		assert.InDelta(t, 480.0, *prompt.TargetCalories, 0.0001)
	})

	t.Run("no target without distribution entry", func(t *testing.T) {
		prompt, err := service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{
			MealType: "snack", AvailableTime: 5, MealNumber: testhelpers.Int(5),
		})
		require.NoError(t, err)
		assert.Nil(t, prompt.TargetCalories)
		assert.NotContains(t, prompt.Text(), "Target calories")
	})

	t.Run("validation", func(t *testing.T) {
		_, err := service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{MealType: "brunch", AvailableTime: 5})
		assert.ErrorIs(t, err, service.ErrInvalidMealType)

		_, err = service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{MealType: "lunch", AvailableTime: 0})
		assert.ErrorIs(t, err, service.ErrInvalidRecipe)

		_, err = service.BuildRecipePrompt(profile, &types.GenerateRecipeRequest{MealType: "lunch", AvailableTime: 5, MealNumber: testhelpers.Int(7)})
		assert.ErrorIs(t, err, service.ErrInvalidMealKey)
	})
}
