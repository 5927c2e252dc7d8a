package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidQuantity     = errors.New("quantity_grams must be greater than 0")
	ErrInvalidMealType     = errors.New("meal_type must be one of breakfast, lunch, dinner, snack")
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidRecipe       = errors.New("recipe does not exist")
	ErrInvalidFood         = errors.New("food does not exist")
	ErrInvalidOriginalSlot = errors.New("invalid original_meal_slot")
	ErrInvalidMealsPerDay  = errors.New("meals_per_day must be between 1 and 6")
	ErrInvalidMealKey      = errors.New("meal keys must be integers between 1 and 6")
	ErrInvalidMealName     = errors.New("meal names must be at most 50 characters")
	ErrInvalidProfile      = errors.New("invalid profile value")
	ErrQueryTooShort       = errors.New("search query must be at least 2 characters")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrGenerationFailed    = errors.New("could not generate a valid recipe, please try again")
	ErrStorageUnavailable  = errors.New("image storage is not configured")
	ErrInvalidImage        = errors.New("image must be jpeg, png or webp")
)
