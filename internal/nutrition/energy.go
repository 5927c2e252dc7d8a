package nutrition

import "math"

var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// ValidActivityLevel reports whether level has a TDEE multiplier.
func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ValidGender reports whether g is accepted by BMR.
func ValidGender(g string) bool {
	return g == "male" || g == "female" || g == "other"
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day. Unknown
// genders use the midpoint of the two sex constants.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case "male":
		return base + 5
	case "female":
		return base - 161
	default:
		return base - 78
	}
}

// TDEE multiplies BMR by the activity factor. ok is false for unknown levels.
func TDEE(bmr float64, activityLevel string) (float64, bool) {
	m, ok := activityMultipliers[activityLevel]
	if !ok {
		return 0, false
	}
	return math.Round(bmr * m), true
}
