package nutrition

import (
	"fmt"
	"math"
	"strconv"
)

const (
	MinMealsPerDay     = 1
	MaxMealsPerDay     = 6
	DefaultMealsPerDay = 3
)

// MealName pairs a 1-based meal number with its display label.
type MealName struct {
	Number int    `json:"meal_number"`
	Name   string `json:"name"`
}

// MealConfig is the slice of a profile the planner reads.
type MealConfig struct {
	MealsPerDay int
	// Distribution maps "1".."6" to a percentage of the daily target. The
	// values are not required to sum to 100.
	Distribution map[string]float64
	// Names is nil when the user never configured meal names.
	Names         map[string]string
	DailyCalories *int
}

var legacyNames = []string{"Breakfast", "Lunch", "Dinner", "Snack", "Evening Snack", "Late Snack"}

// MealKey is the map key used for meal number n.
func MealKey(n int) string {
	return strconv.Itoa(n)
}

// ParseMealKey validates a distribution or name key and returns its meal number.
func ParseMealKey(key string) (int, error) {
	n, err := strconv.Atoi(key)
	if err != nil || n < MinMealsPerDay || n > MaxMealsPerDay {
		return 0, fmt.Errorf("meal key %q must be an integer between %d and %d", key, MinMealsPerDay, MaxMealsPerDay)
	}
	return n, nil
}

// ValidMealsPerDay reports whether n is a supported meal count.
func ValidMealsPerDay(n int) bool {
	return n >= MinMealsPerDay && n <= MaxMealsPerDay
}

// MealCount clamps a stored meal count to the supported range, falling back
// to the default for unset values.
func (c MealConfig) MealCount() int {
	if !ValidMealsPerDay(c.MealsPerDay) {
		return DefaultMealsPerDay
	}
	return c.MealsPerDay
}

// MealCalories returns the calorie target for one meal. ok is false when the
// daily target or the distribution entry is missing. The result is not rounded.
func MealCalories(cfg MealConfig, mealNumber int) (float64, bool) {
	if cfg.DailyCalories == nil || len(cfg.Distribution) == 0 {
		return 0, false
	}
	pct, ok := cfg.Distribution[MealKey(mealNumber)]
	if !ok {
		return 0, false
	}
	return float64(*cfg.DailyCalories) * pct / 100, true
}

// PercentageCalories applies an explicit percentage to a daily target.
func PercentageCalories(dailyCalories int, pct float64) float64 {
	return float64(dailyCalories) * pct / 100
}

// DefaultMealNames returns the canonical labels for a meal count. Counts of
// three or more use the named presets; smaller counts are positional.
func DefaultMealNames(count int) []MealName {
	if !ValidMealsPerDay(count) {
		count = DefaultMealsPerDay
	}
	out := make([]MealName, 0, count)
	for n := 1; n <= count; n++ {
		name := PositionalName(n)
		if count >= 3 {
			name = legacyNames[n-1]
		}
		out = append(out, MealName{Number: n, Name: name})
	}
	return out
}

// DefaultDistribution splits 100% evenly across count meals, one decimal each,
// with the remainder on the last meal.
func DefaultDistribution(count int) map[string]float64 {
	if !ValidMealsPerDay(count) {
		count = DefaultMealsPerDay
	}
	share := math.Floor(1000/float64(count)) / 10
	out := make(map[string]float64, count)
	total := 0.0
	for n := 1; n < count; n++ {
		out[MealKey(n)] = share
		total += share
	}
	out[MealKey(count)] = Round1(100 - total)
	return out
}

// PositionalName is the fallback label "Meal {n}".
func PositionalName(n int) string {
	return fmt.Sprintf("Meal %d", n)
}

// ResolveMealNames labels meals 1..count. Configured names win; a nil map
// means names were never set and the presets apply; anything else missing
// falls back to "Meal {n}".
func ResolveMealNames(names map[string]string, count int) []MealName {
	if names == nil {
		return DefaultMealNames(count)
	}
	out := make([]MealName, 0, count)
	for n := 1; n <= count; n++ {
		name, ok := names[MealKey(n)]
		if !ok || name == "" {
			name = PositionalName(n)
		}
		out = append(out, MealName{Number: n, Name: name})
	}
	return out
}

// ResolveMealName labels meal n of a day with count meals, by the same rules
// as ResolveMealNames.
func ResolveMealName(names map[string]string, count, n int) string {
	if names == nil {
		if ValidMealsPerDay(count) && count >= 3 && n >= 1 && n <= count {
			return legacyNames[n-1]
		}
		return PositionalName(n)
	}
	if name := names[MealKey(n)]; name != "" {
		return name
	}
	return PositionalName(n)
}
