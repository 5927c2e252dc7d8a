package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestDashboardToday(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", func(p *models.Profile) {
		p.DailyCalorieTarget = testhelpers.Int(1800)
		p.DailyProteinTarget = testhelpers.Float(120)
	})
	food := testhelpers.CreateFood(t, api.db, nil)

	w := api.do(t, http.MethodGet, "/api/v1/dashboard/today", token, nil)
	requireStatus(t, w, http.StatusOK)
	var empty types.DashboardResponse
	decode(t, w, &empty)
	assert.Equal(t, 0, empty.Totals.Calories)
	assert.Empty(t, empty.Meals)
	require.NotNil(t, empty.Remaining)
	assert.Equal(t, 1800, *empty.Remaining)

	w = api.do(t, http.MethodGet, "/api/v1/meal-plans/current", token, nil)
	requireStatus(t, w, http.StatusOK)
	w = api.do(t, http.MethodPost, "/api/v1/food-logs", token, map[string]interface{}{
		"food": food.ID, "meal_type": "breakfast", "quantity_grams": 150,
	})
	requireStatus(t, w, http.StatusCreated)

	w = api.do(t, http.MethodGet, "/api/v1/dashboard/today", token, nil)
	requireStatus(t, w, http.StatusOK)
	var dash types.DashboardResponse
	decode(t, w, &dash)
	assert.Equal(t, nutrition.FormatDate(time.Now()), dash.Date)
	assert.Equal(t, 300, dash.Totals.Calories)
	assert.Equal(t, 1500, *dash.Remaining)
	require.NotNil(t, dash.Targets.Protein)
	assert.Equal(t, 120.0, *dash.Targets.Protein)
	assert.Nil(t, dash.Targets.Carbs)
	require.Len(t, dash.Meals, 3)
	assert.Equal(t, "Breakfast", dash.Meals[0].MealName)
	assert.Equal(t, dash.Date, dash.Meals[0].Date)
}
