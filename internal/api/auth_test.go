package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestHealthCheck(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestRegisterAndLogin(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "password123",
	})
	requireStatus(t, w, http.StatusCreated)
	var registered types.AuthResponse
	decode(t, w, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ana@example.com", registered.User.Email)

	w = api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "password123",
	})
	requireStatus(t, w, http.StatusOK)
	var loggedIn types.AuthResponse
	decode(t, w, &loggedIn)

	w = api.do(t, http.MethodGet, "/api/v1/profile", loggedIn.Token, nil)
	requireStatus(t, w, http.StatusOK)
	var profile map[string]interface{}
	decode(t, w, &profile)
	assert.Equal(t, float64(3), profile["meals_per_day"])
	names, ok := profile["resolved_meal_names"].([]interface{})
	require.True(t, ok)
	assert.Len(t, names, 3)
}

func TestRegisterValidation(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := setupTestAPI(t)

	for _, path := range []string{
		"/api/v1/profile",
		"/api/v1/meal-plans/current",
		"/api/v1/food-logs",
		"/api/v1/dashboard/today",
	} {
		w := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = api.do(t, http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestUpdateProfile(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)

	w := api.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]interface{}{
		"age":                  30,
		"weight_kg":            70,
		"height_cm":            175,
		"gender":               "male",
		"activity_level":       "moderately_active",
		"daily_calorie_target": 2000,
		"meals_per_day":        4,
		"meal_names":           map[string]string{"4": "Pre-Workout"},
	})
	requireStatus(t, w, http.StatusOK)

	var profile struct {
		MealsPerDay int      `json:"meals_per_day"`
		BMR         *float64 `json:"bmr"`
		TDEE        *float64 `json:"tdee"`
		Resolved    []struct {
			Number int    `json:"meal_number"`
			Name   string `json:"name"`
		} `json:"resolved_meal_names"`
	}
	decode(t, w, &profile)
	assert.Equal(t, 4, profile.MealsPerDay)
	require.NotNil(t, profile.BMR)
	assert.InDelta(t, 1648.75, *profile.BMR, 0.001)
	require.NotNil(t, profile.TDEE)
	assert.Equal(t, 2556.0, *profile.TDEE)
	require.Len(t, profile.Resolved, 4)
	assert.Equal(t, "Meal 1", profile.Resolved[0].Name)
	assert.Equal(t, "Pre-Workout", profile.Resolved[3].Name)

	w = api.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]interface{}{"meals_per_day": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]interface{}{
		"meal_distribution": map[string]float64{"9": 50},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProfileClearsWithNull(t *testing.T) {
	api := setupTestAPI(t)
	_, token := api.userWithToken(t, "ana", nil)

	w := api.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]interface{}{
		"daily_calorie_target": 2000,
		"meal_distribution":    map[string]float64{"1": 50, "2": 50},
		"meal_names":           map[string]string{"1": "Brunch"},
	})
	requireStatus(t, w, http.StatusOK)

	w = api.do(t, http.MethodGet, "/api/v1/meal-plans/meal-target?meal_number=1", token, nil)
	requireStatus(t, w, http.StatusOK)
	var target types.MealTarget
	decode(t, w, &target)
	require.NotNil(t, target.Calories)
	assert.Equal(t, 1000.0, *target.Calories)
	assert.Equal(t, "Brunch", target.MealName)

	w = api.do(t, http.MethodPatch, "/api/v1/profile", token, map[string]interface{}{
		"daily_calorie_target": nil,
		"meal_distribution":    nil,
		"meal_names":           nil,
	})
	requireStatus(t, w, http.StatusOK)

	var profile map[string]interface{}
	decode(t, w, &profile)
	assert.Nil(t, profile["daily_calorie_target"])
	assert.Nil(t, profile["meal_distribution"])
	assert.Nil(t, profile["meal_names"])

	w = api.do(t, http.MethodGet, "/api/v1/meal-plans/meal-target?meal_number=1", token, nil)
	requireStatus(t, w, http.StatusOK)
	target = types.MealTarget{}
	decode(t, w, &target)
	assert.Nil(t, target.Calories)
	assert.Nil(t, target.Percentage)
	assert.Equal(t, "Breakfast", target.MealName)
}
