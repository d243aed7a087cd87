package recipe

import "testing"

func TestComputeScenario(t *testing.T) {
	got := Compute(Ratios{FlourWeight: 1000, Hydration: 70, StarterRatio: 30, SaltRatio: 3.5})
	want := Amounts{Flour: 1000, Water: 700, Starter: 300, Salt: 35, Total: 2035}
	if got != want {
		t.Fatalf("Compute = %+v, want %+v", got, want)
	}
}

func TestPercentRounding(t *testing.T) {
	tests := []struct {
		name  string
		flour int
		pct   float64
		want  int
	}{
		{"zero flour", 0, 70, 0},
		{"zero pct", 500, 0, 0},
		{"rounds half up", 333, 1.5, 5},
		{"rounds down", 1000, 3.44, 34},
		{"full", 800, 100, 800},
		{"huge", 1_000_000, 65.5, 655_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Water(tt.flour, tt.pct); got != tt.want {
				t.Fatalf("Water(%d, %v) = %d, want %d", tt.flour, tt.pct, got, tt.want)
			}
		})
	}
}

func TestWaterMonotonic(t *testing.T) {
	prev := -1
	for f := 0; f <= 2000; f += 37 {
		w := Water(f, 68)
		if w < prev {
			t.Fatalf("water decreased at flour=%d: %d < %d", f, w, prev)
		}
		prev = w
	}
	prev = -1
	for h := 0.0; h <= 100; h += 0.5 {
		w := Water(750, h)
		if w < prev {
			t.Fatalf("water decreased at hydration=%v: %d < %d", h, w, prev)
		}
		prev = w
	}
}

func TestRescaleFlour(t *testing.T) {
	tests := []struct {
		name     string
		flour    int
		from, to int
		want     int
	}{
		{"one to two", 1000, 1, 2, 2000},
		{"two to one", 2000, 2, 1, 1000},
		{"same count", 937, 3, 3, 937},
		{"three to two rounds", 1000, 3, 2, 667},
		{"below one ignored", 1000, 1, 0, 1000},
		{"negative ignored", 1000, 2, -3, 1000},
		{"zero old treated as one", 500, 0, 2, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RescaleFlour(tt.flour, tt.from, tt.to); got != tt.want {
				t.Fatalf("RescaleFlour(%d, %d, %d) = %d, want %d", tt.flour, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRescaleRoundTrip(t *testing.T) {
	f := RescaleFlour(1000, 1, 2)
	if back := RescaleFlour(f, 2, 1); back != 1000 {
		t.Fatalf("round trip = %d, want 1000", back)
	}
}
