package engine

import (
	"math"

	"github.com/hammamikhairi/levain/internal/domain"
)

// ReferenceTemp is the room temperature the catalog's base durations
// assume, in °C.
const ReferenceTemp = 24.0

// TemperatureFactor scales ambient durations: 10% shorter per degree
// above the reference, about 11% longer per degree below.
func TemperatureFactor(roomTemp float64) float64 {
	return math.Pow(0.9, roomTemp-ReferenceTemp)
}

// AdjustedDuration returns base scaled for roomTemp, rounded to whole
// minutes.
func AdjustedDuration(base int, roomTemp float64) int {
	return int(math.Round(float64(base) * TemperatureFactor(roomTemp)))
}

// applyTemperature recomputes every ambient step from its catalog base
// duration. Manual edits to those steps are overwritten.
func (e *Engine) applyTemperature(s *domain.State) {
	for _, id := range e.catalog.AmbientIDs() {
		base, err := e.catalog.BaseDuration(id)
		if err != nil {
			continue
		}
		step := s.Step(id)
		if step == nil {
			continue
		}
		step.DurationMin = AdjustedDuration(base, s.RoomTemp)
	}
}
