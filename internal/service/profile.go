package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const maxMealNameLength = 50

var validGoals = map[string]bool{
	"lose_weight":     true,
	"maintain_weight": true,
	"gain_weight":     true,
}

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return loadProfile(s.db.WithContext(ctx), userID)
}

// UpdateProfile validates the whole request before writing anything.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error) {
	if err := validateProfileUpdate(req); err != nil {
		return nil, err
	}

	profile, err := loadProfile(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.WeightKg != nil {
		profile.WeightKg = req.WeightKg
	}
	if req.HeightCm != nil {
		profile.HeightCm = req.HeightCm
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
	if req.Goal != nil {
		profile.Goal = *req.Goal
	}
	if req.DietaryPreferences != nil {
		profile.DietaryPreferences = *req.DietaryPreferences
	}
	if req.Allergies != nil {
		profile.Allergies = *req.Allergies
	}
	if req.Dislikes != nil {
		profile.Dislikes = *req.Dislikes
	}
	if req.DailyCalorieTarget.Set {
		profile.DailyCalorieTarget = req.DailyCalorieTarget.Value
	}
	if req.DailyProteinTarget.Set {
		profile.DailyProteinTarget = req.DailyProteinTarget.Value
	}
	if req.DailyCarbsTarget.Set {
		profile.DailyCarbsTarget = req.DailyCarbsTarget.Value
	}
	if req.DailyFatsTarget.Set {
		profile.DailyFatsTarget = req.DailyFatsTarget.Value
	}
	if req.MealsPerDay != nil {
		profile.MealsPerDay = *req.MealsPerDay
	}
	if req.MealDistribution.Set {
		var dist models.MealDistribution
		if req.MealDistribution.Value != nil {
			dist = models.MealDistribution(*req.MealDistribution.Value)
		}
		profile.SetMealDistribution(dist)
	}
	if req.MealNames.Set {
		var names models.MealNames
		if req.MealNames.Value != nil {
			names = models.MealNames(*req.MealNames.Value)
		}
		profile.SetMealNames(names)
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func validateProfileUpdate(req *types.UpdateProfileRequest) error {
	if req.MealsPerDay != nil && !nutrition.ValidMealsPerDay(*req.MealsPerDay) {
		return ErrInvalidMealsPerDay
	}
	if req.MealDistribution.Value != nil {
		for key, pct := range *req.MealDistribution.Value {
			if _, err := nutrition.ParseMealKey(key); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidMealKey, err)
			}
			if pct < 0 {
				return fmt.Errorf("%w: percentage for meal %s must not be negative", ErrInvalidProfile, key)
			}
		}
	}
	if req.MealNames.Value != nil {
		for key, name := range *req.MealNames.Value {
			if _, err := nutrition.ParseMealKey(key); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidMealKey, err)
			}
			if utf8.RuneCountInString(name) > maxMealNameLength {
				return ErrInvalidMealName
			}
		}
	}
	if req.Gender != nil && *req.Gender != "" && !nutrition.ValidGender(*req.Gender) {
		return fmt.Errorf("%w: gender must be male, female or other", ErrInvalidProfile)
	}
	if req.ActivityLevel != nil && !nutrition.ValidActivityLevel(*req.ActivityLevel) {
		return fmt.Errorf("%w: unknown activity_level %q", ErrInvalidProfile, *req.ActivityLevel)
	}
	if req.Goal != nil && !validGoals[*req.Goal] {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, *req.Goal)
	}
	if req.Age != nil && (*req.Age <= 0 || *req.Age > 150) {
		return fmt.Errorf("%w: age must be between 1 and 150", ErrInvalidProfile)
	}
	if req.WeightKg != nil && *req.WeightKg <= 0 {
		return fmt.Errorf("%w: weight_kg must be positive", ErrInvalidProfile)
	}
	if req.HeightCm != nil && *req.HeightCm <= 0 {
		return fmt.Errorf("%w: height_cm must be positive", ErrInvalidProfile)
	}
	if req.DailyCalorieTarget.Value != nil && *req.DailyCalorieTarget.Value < 0 {
		return fmt.Errorf("%w: daily_calorie_target must not be negative", ErrInvalidProfile)
	}
	for _, v := range []*float64{req.DailyProteinTarget.Value, req.DailyCarbsTarget.Value, req.DailyFatsTarget.Value} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: macro targets must not be negative", ErrInvalidProfile)
		}
	}
	return nil
}

// loadProfile returns ErrNotFound when the user has no profile row.
func loadProfile(db *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}
