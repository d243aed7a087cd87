package recipe

import (
	"fmt"
	"math"
)

// Ingredient is one line on a step's ingredient card. Grams is zero for
// "to taste" lines.
type Ingredient struct {
	Name  string
	Grams int
	Note  string
}

// Flour blend proportions, relative to total flour weight.
const (
	ryeShare   = 0.10
	speltShare = 0.25
)

// starterBuffer covers what sticks to the jar when feeding.
const starterBuffer = 15

// StarterFeed returns the equal-parts amount of mother starter, flour and
// water needed to build the given starter weight, and what the feed yields.
func StarterFeed(starter int) (unit, yield int) {
	unit = int(math.Ceil(float64(starter+starterBuffer) / 3))
	return unit, unit * 3
}

// Blend splits the flour into a rye/spelt/white mix. White takes the
// remainder so the parts always sum to flour.
func Blend(flour int) []Ingredient {
	rye := int(math.Round(float64(flour) * ryeShare))
	spelt := int(math.Round(float64(flour) * speltShare))
	return []Ingredient{
		{Name: "White bread flour", Grams: flour - rye - spelt},
		{Name: "Whole spelt flour", Grams: spelt},
		{Name: "Whole rye flour", Grams: rye},
	}
}

// StepIngredients returns the ingredient card for a step. Indices into the
// result are the tokens the ingredient checkboxes toggle. Steps without a
// card return nil.
func StepIngredients(stepID string, a Amounts) []Ingredient {
	switch stepID {
	case "starter-feed":
		unit, yield := StarterFeed(a.Starter)
		return []Ingredient{
			{Name: "Mother starter", Grams: unit},
			{Name: "Flour", Grams: unit},
			{Name: "Water", Grams: unit, Note: fmt.Sprintf("yields %dg", yield)},
		}
	case "mix-flour-water":
		return []Ingredient{
			{Name: "Flour", Grams: a.Flour},
			{Name: "Water", Grams: a.Water},
		}
	case "add-starter":
		return []Ingredient{
			{Name: "Active starter", Grams: a.Starter},
		}
	case "add-salt":
		return []Ingredient{
			{Name: "Salt", Grams: a.Salt},
			{Name: "Water", Note: "a splash"},
		}
	default:
		return nil
	}
}
