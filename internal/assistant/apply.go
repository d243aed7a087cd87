package assistant

import (
	"context"
	"fmt"
	"math"
)

// Tuner is the part of the engine an Adjustment can touch.
type Tuner interface {
	SetFlourWeight(ctx context.Context, grams int) bool
	SetHydration(ctx context.Context, pct float64) bool
	SetStarterRatio(ctx context.Context, pct float64) bool
	SetSaltRatio(ctx context.Context, pct float64) bool
	SetLoafCount(ctx context.Context, count int) bool
	SetRoomTemp(ctx context.Context, celsius float64) bool
	UpdateStepDuration(ctx context.Context, id string, minutes int) bool
}

// ApplyActions applies the actions in order. It stops at the first action
// that can't be applied; earlier actions stay applied. Returns how many
// actions changed the state.
func ApplyActions(ctx context.Context, t Tuner, actions []Action) (int, error) {
	changed := 0
	for i, act := range actions {
		ok, err := applyOne(ctx, t, act)
		if err != nil {
			return changed, fmt.Errorf("action %d (%s): %w", i+1, act.Type, err)
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

func applyOne(ctx context.Context, t Tuner, act Action) (bool, error) {
	if act.Type != ActionSetTemp && act.Value < 0 {
		return false, fmt.Errorf("negative value %g", act.Value)
	}
	switch act.Type {
	case ActionSetFlour:
		return t.SetFlourWeight(ctx, round(act.Value)), nil
	case ActionSetHydration:
		return t.SetHydration(ctx, act.Value), nil
	case ActionSetStarter:
		return t.SetStarterRatio(ctx, act.Value), nil
	case ActionSetSalt:
		return t.SetSaltRatio(ctx, act.Value), nil
	case ActionSetLoaves:
		if act.Value < 1 {
			return false, fmt.Errorf("loaf count %g", act.Value)
		}
		return t.SetLoafCount(ctx, round(act.Value)), nil
	case ActionSetTemp:
		return t.SetRoomTemp(ctx, act.Value), nil
	case ActionSetDuration:
		if act.StepID == "" {
			return false, fmt.Errorf("missing step_id")
		}
		return t.UpdateStepDuration(ctx, act.StepID, round(act.Value)), nil
	default:
		return false, fmt.Errorf("unknown action type: %s", act.Type)
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
