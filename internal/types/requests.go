package types

import "github.com/google/uuid"

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateMealSlotRequest is a partial update of one slot. Omitted fields are
// left alone; recipe and original_meal_slot accept an explicit null.
type UpdateMealSlotRequest struct {
	Recipe           NullableUUID `json:"recipe"`
	IsLeftover       *bool        `json:"is_leftover"`
	OriginalMealSlot NullableUUID `json:"original_meal_slot"`
	Notes            *string      `json:"notes"`
}

// CreateFoodLogRequest logs a quantity of a food. Date defaults to today.
type CreateFoodLogRequest struct {
	Food          uuid.UUID `json:"food" binding:"required"`
	Date          string    `json:"date"`
	MealType      string    `json:"meal_type" binding:"required"`
	QuantityGrams float64   `json:"quantity_grams"`
}

// UpdateFoodLogRequest is a partial update; macros are recomputed on save.
type UpdateFoodLogRequest struct {
	Food          *uuid.UUID `json:"food"`
	Date          *string    `json:"date"`
	MealType      *string    `json:"meal_type"`
	QuantityGrams *float64   `json:"quantity_grams"`
}
