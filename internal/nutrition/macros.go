package nutrition

import "math"

// Macros holds the four tracked nutrient totals.
type Macros struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// PerServing is a food's nutrient record as stored. Nil fields are unknown.
type PerServing struct {
	ServingSize *float64
	Calories    *float64
	Protein     *float64
	Carbs       *float64
	Fats        *float64
}

// ScaledMacros converts per-serving values into the macros for quantityGrams.
// Calories are truncated, the rest rounded to one decimal. A food without a
// positive serving size contributes nothing.
func ScaledMacros(food PerServing, quantityGrams float64) Macros {
	if food.ServingSize == nil || *food.ServingSize <= 0 {
		return Macros{}
	}

	ratio := quantityGrams / *food.ServingSize
	return Macros{
		Calories: int(valueOf(food.Calories) * ratio),
		Protein:  Round1(valueOf(food.Protein) * ratio),
		Carbs:    Round1(valueOf(food.Carbs) * ratio),
		Fats:     Round1(valueOf(food.Fats) * ratio),
	}
}

// Add returns the field-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

// Rounded rounds protein, carbs and fats to one decimal.
func (m Macros) Rounded() Macros {
	return Macros{
		Calories: m.Calories,
		Protein:  Round1(m.Protein),
		Carbs:    Round1(m.Carbs),
		Fats:     Round1(m.Fats),
	}
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func valueOf(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
