package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestFoodSearch(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)
	testhelpers.CreateFood(t, api.db, testhelpers.FoodFixture("Greek Yogurt"))
	testhelpers.CreateFood(t, api.db, testhelpers.FoodFixture("Almond Yogurt"))
	testhelpers.CreateFood(t, api.db, testhelpers.FoodFixture("Oat Milk"))

	w := api.do(t, http.MethodGet, "/api/v1/foods/search?q=YOG", token, nil)
	requireStatus(t, w, http.StatusOK)
	var foods []models.Food
	decode(t, w, &foods)
	require.Len(t, foods, 2)
	assert.Equal(t, "Almond Yogurt", foods[0].Description)
	assert.Equal(t, "Greek Yogurt", foods[1].Description)

	w = api.do(t, http.MethodGet, "/api/v1/foods/search?q=y", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/foods/"+foods[0].ID.String(), token, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestFoodLogLifecycle(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)
	food := testhelpers.CreateFood(t, api.db, nil)

	w := api.do(t, http.MethodPost, "/api/v1/food-logs", token, map[string]interface{}{
		"food":           food.ID,
		"date":           "2024-01-15",
		"meal_type":      "lunch",
		"quantity_grams": 250,
	})
	requireStatus(t, w, http.StatusCreated)
	var entry types.FoodLogResponse
	decode(t, w, &entry)
	assert.Equal(t, 500, entry.Calories)
	assert.Equal(t, 25.0, entry.Protein)
	assert.Equal(t, 62.5, entry.Carbs)
	assert.Equal(t, 20.0, entry.Fats)
	assert.Equal(t, "2024-01-15", entry.Date)

	w = api.do(t, http.MethodPatch, "/api/v1/food-logs/"+entry.ID.String(), token, map[string]interface{}{
		"quantity_grams": 50,
	})
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &entry)
	assert.Equal(t, 100, entry.Calories)
	assert.Equal(t, 5.0, entry.Protein)

	w = api.do(t, http.MethodGet, "/api/v1/food-logs?date=2024-01-15", token, nil)
	requireStatus(t, w, http.StatusOK)
	var logs []types.FoodLogResponse
	decode(t, w, &logs)
	assert.Len(t, logs, 1)

	w = api.do(t, http.MethodGet, "/api/v1/food-logs?date=15/01/2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/api/v1/food-logs/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/v1/food-logs/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFoodLogValidation(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)
	food := testhelpers.CreateFood(t, api.db, nil)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero quantity", map[string]interface{}{"food": food.ID, "meal_type": "lunch", "quantity_grams": 0}},
		{"negative quantity", map[string]interface{}{"food": food.ID, "meal_type": "lunch", "quantity_grams": -5}},
		{"unknown meal type", map[string]interface{}{"food": food.ID, "meal_type": "brunch", "quantity_grams": 100}},
		{"bad date", map[string]interface{}{"food": food.ID, "meal_type": "lunch", "quantity_grams": 100, "date": "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/api/v1/food-logs", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	var count int64
	require.NoError(t, api.db.Model(&models.FoodLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFoodLogOwnership(t *testing.T) {
	api := setupTestAPI(t)
	_, anaToken := api.userWithToken(t, "ana", nil)
	_, benToken := api.userWithToken(t, "ben", nil)
	food := testhelpers.CreateFood(t, api.db, nil)

	w := api.do(t, http.MethodPost, "/api/v1/food-logs", anaToken, map[string]interface{}{
		"food": food.ID, "meal_type": "snack", "quantity_grams": 100,
	})
	requireStatus(t, w, http.StatusCreated)
	var entry types.FoodLogResponse
	decode(t, w, &entry)

	w = api.do(t, http.MethodGet, "/api/v1/food-logs/"+entry.ID.String(), benToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodPatch, "/api/v1/food-logs/"+entry.ID.String(), benToken, map[string]interface{}{"quantity_grams": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodDelete, "/api/v1/food-logs/"+entry.ID.String(), benToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/food-logs", benToken, nil)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestDailyTotalsEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)
	food := testhelpers.CreateFood(t, api.db, nil)

	for _, body := range []map[string]interface{}{
		{"food": food.ID, "date": "2024-01-15", "meal_type": "breakfast", "quantity_grams": 100},
		{"food": food.ID, "date": "2024-01-15", "meal_type": "lunch", "quantity_grams": 150},
		{"food": food.ID, "date": "2024-01-16", "meal_type": "lunch", "quantity_grams": 500},
	} {
		w := api.do(t, http.MethodPost, "/api/v1/food-logs", token, body)
		requireStatus(t, w, http.StatusCreated)
	}

	w := api.do(t, http.MethodGet, "/api/v1/food-logs/daily-totals?date=2024-01-15", token, nil)
	requireStatus(t, w, http.StatusOK)
	var totals types.DailyTotals
	decode(t, w, &totals)
	assert.Equal(t, "2024-01-15", totals.Date)
	assert.Equal(t, 500, totals.Totals.Calories)
	assert.Equal(t, 25.0, totals.Totals.Protein)
	assert.Equal(t, 62.5, totals.Totals.Carbs)
	assert.Equal(t, 20.0, totals.Totals.Fats)
	assert.Equal(t, 200, totals.ByMeal["breakfast"].Calories)
	assert.Equal(t, 300, totals.ByMeal["lunch"].Calories)
	assert.Equal(t, 0, totals.ByMeal["dinner"].Calories)

	w = api.do(t, http.MethodGet, "/api/v1/food-logs/daily-totals?date=2024-02-30", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
