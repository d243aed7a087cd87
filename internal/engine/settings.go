package engine

import (
	"context"
	"math"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/recipe"
)

// SetFlourWeight sets the total flour weight in grams. Negative values
// are ignored.
func (e *Engine) SetFlourWeight(ctx context.Context, grams int) bool {
	return e.mutate(ctx, "flour", func(s *domain.State) bool {
		if grams < 0 || grams == s.FlourWeight {
			return false
		}
		s.FlourWeight = grams
		return true
	})
}

// SetHydration sets the water percentage.
func (e *Engine) SetHydration(ctx context.Context, pct float64) bool {
	return e.setPercent(ctx, "hydration", pct, func(s *domain.State) *float64 { return &s.Hydration })
}

// SetStarterRatio sets the starter percentage.
func (e *Engine) SetStarterRatio(ctx context.Context, pct float64) bool {
	return e.setPercent(ctx, "starter", pct, func(s *domain.State) *float64 { return &s.StarterRatio })
}

// SetSaltRatio sets the salt percentage.
func (e *Engine) SetSaltRatio(ctx context.Context, pct float64) bool {
	return e.setPercent(ctx, "salt", pct, func(s *domain.State) *float64 { return &s.SaltRatio })
}

// SetLoafCount changes the number of loaves and rescales the flour weight
// so each loaf keeps the same amount. Counts below 1 are ignored.
func (e *Engine) SetLoafCount(ctx context.Context, count int) bool {
	return e.mutate(ctx, "loaves", func(s *domain.State) bool {
		if count < 1 || count == s.LoafCount {
			return false
		}
		s.FlourWeight = recipe.RescaleFlour(s.FlourWeight, s.LoafCount, count)
		s.LoafCount = count
		return true
	})
}

// SetRoomTemp sets the room temperature and recomputes the durations of
// the ambient-sensitive steps from their base values. NaN and infinities
// are ignored.
func (e *Engine) SetRoomTemp(ctx context.Context, celsius float64) bool {
	return e.mutate(ctx, "room temp", func(s *domain.State) bool {
		if !finite(celsius) || celsius == s.RoomTemp {
			return false
		}
		s.RoomTemp = celsius
		e.applyTemperature(s)
		e.log.Info("room temp %.1f°C, ambient factor %.3f", celsius, TemperatureFactor(celsius))
		return true
	})
}

func (e *Engine) setPercent(ctx context.Context, op string, pct float64, field func(*domain.State) *float64) bool {
	return e.mutate(ctx, op, func(s *domain.State) bool {
		p := field(s)
		if !finite(pct) || pct < 0 || pct == *p {
			return false
		}
		*p = pct
		return true
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
