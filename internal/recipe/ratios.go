// Package recipe holds the step catalog and the baker's-percentage math
// that turns a flour weight into a full dough.
package recipe

import (
	"math"

	"github.com/hammamikhairi/levain/internal/domain"
)

// Ratios are the recipe scalars ingredient weights are derived from.
// Percentages are relative to flour weight.
type Ratios struct {
	FlourWeight  int
	Hydration    float64
	StarterRatio float64
	SaltRatio    float64
}

// Amounts are derived ingredient weights in grams.
type Amounts struct {
	Flour   int
	Water   int
	Starter int
	Salt    int
	Total   int
}

// RatiosOf extracts the ratio scalars from a process state.
func RatiosOf(s domain.State) Ratios {
	return Ratios{
		FlourWeight:  s.FlourWeight,
		Hydration:    s.Hydration,
		StarterRatio: s.StarterRatio,
		SaltRatio:    s.SaltRatio,
	}
}

// Water returns the water weight for the given flour weight and hydration.
func Water(flour int, hydration float64) int {
	return percentOf(flour, hydration)
}

// Starter returns the starter weight for the given flour weight and ratio.
func Starter(flour int, ratio float64) int {
	return percentOf(flour, ratio)
}

// Salt returns the salt weight for the given flour weight and ratio.
func Salt(flour int, ratio float64) int {
	return percentOf(flour, ratio)
}

// Compute derives all ingredient weights. Nothing is cached; call it on
// every read.
func Compute(r Ratios) Amounts {
	a := Amounts{
		Flour:   r.FlourWeight,
		Water:   Water(r.FlourWeight, r.Hydration),
		Starter: Starter(r.FlourWeight, r.StarterRatio),
		Salt:    Salt(r.FlourWeight, r.SaltRatio),
	}
	a.Total = a.Flour + a.Water + a.Starter + a.Salt
	return a
}

// AmountsFor is shorthand for Compute(RatiosOf(s)).
func AmountsFor(s domain.State) Amounts {
	return Compute(RatiosOf(s))
}

// RescaleFlour keeps the per-loaf flour weight constant when the loaf
// count changes from oldCount to newCount. A newCount below 1 returns
// flour unchanged; an oldCount below 1 is treated as a single loaf.
func RescaleFlour(flour, oldCount, newCount int) int {
	if newCount < 1 {
		return flour
	}
	if oldCount < 1 {
		oldCount = 1
	}
	if oldCount == newCount {
		return flour
	}
	return int(math.Round(float64(flour) / float64(oldCount) * float64(newCount)))
}

func percentOf(flour int, pct float64) int {
	return int(math.Round(float64(flour) * pct / 100))
}
