package recipe

import "testing"

func TestStarterFeed(t *testing.T) {
	tests := []struct {
		starter, unit, yield int
	}{
		{300, 105, 315},
		{0, 5, 15},
		{100, 39, 117},
	}
	for _, tt := range tests {
		unit, yield := StarterFeed(tt.starter)
		if unit != tt.unit || yield != tt.yield {
			t.Fatalf("StarterFeed(%d) = %d, %d; want %d, %d", tt.starter, unit, yield, tt.unit, tt.yield)
		}
	}
}

func TestBlendSumsToFlour(t *testing.T) {
	for _, flour := range []int{0, 1, 999, 1000, 1337} {
		sum := 0
		for _, in := range Blend(flour) {
			sum += in.Grams
		}
		if sum != flour {
			t.Fatalf("Blend(%d) sums to %d", flour, sum)
		}
	}
	b := Blend(1000)
	if b[0].Grams != 650 || b[1].Grams != 250 || b[2].Grams != 100 {
		t.Fatalf("Blend(1000) = %+v", b)
	}
}

func TestStepIngredients(t *testing.T) {
	a := Compute(Ratios{FlourWeight: 1000, Hydration: 70, StarterRatio: 30, SaltRatio: 3.5})

	if got := StepIngredients("mix-flour-water", a); len(got) != 2 || got[1].Grams != 700 {
		t.Fatalf("mix card = %+v", got)
	}
	if got := StepIngredients("add-salt", a); len(got) != 2 || got[0].Grams != 35 {
		t.Fatalf("salt card = %+v", got)
	}
	if got := StepIngredients("starter-feed", a); len(got) != 3 || got[0].Grams != 105 {
		t.Fatalf("feed card = %+v", got)
	}
	if got := StepIngredients("cool", a); got != nil {
		t.Fatalf("expected no card for cool, got %+v", got)
	}
}
