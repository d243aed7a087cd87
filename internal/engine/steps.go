package engine

import (
	"context"
	"slices"

	"github.com/hammamikhairi/levain/internal/domain"
)

// StartStep makes the step active. A timed step gets a fresh timer ending
// durationMin from now; a manual step clears any timer. Starting a
// completed or unknown step does nothing, and starting the step that is
// already active is an idempotent no-op. A previously active step goes
// back to pending so only one step is ever active. The cursor stays
// where it is; FocusActive moves it.
func (e *Engine) StartStep(ctx context.Context, id string) bool {
	return e.mutate(ctx, "start "+id, func(s *domain.State) bool {
		idx := s.StepIndex(id)
		if idx < 0 {
			return false
		}
		step := &s.Steps[idx]
		if step.Status == domain.StepCompleted || step.Status == domain.StepActive {
			return false
		}

		if prev := s.ActiveStep(); prev != nil && prev.Status == domain.StepActive {
			prev.Status = domain.StepPending
			e.log.Debug("step %s superseded by %s", prev.ID, id)
		}

		step.Status = domain.StepActive
		activeID := step.ID
		s.ActiveStepID = &activeID
		if step.Timed() {
			end := e.now().Add(step.Duration())
			s.TimerEndTime = &end
			e.log.Info("started %s, timer ends %s", id, end.Format("15:04:05"))
		} else {
			s.TimerEndTime = nil
			e.log.Info("started %s (manual)", id)
		}
		return true
	})
}

// CompleteStep marks the step completed and stamps completedAt. It always
// clears the active pointer and the timer, even when another step was
// active; that step returns to pending. A step already completed keeps its
// original timestamp.
func (e *Engine) CompleteStep(ctx context.Context, id string) bool {
	return e.mutate(ctx, "complete "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil {
			return false
		}

		changed := false
		if prev := s.ActiveStep(); prev != nil && prev.ID != id && prev.Status == domain.StepActive {
			prev.Status = domain.StepPending
			changed = true
		}
		if step.Status != domain.StepCompleted {
			now := e.now()
			step.Status = domain.StepCompleted
			step.CompletedAt = &now
			changed = true
			e.log.Info("completed %s", id)
		}
		if s.ActiveStepID != nil || s.TimerEndTime != nil {
			s.ActiveStepID = nil
			s.TimerEndTime = nil
			changed = true
		}
		return changed
	})
}

// UndoStep returns a completed step to pending and clears its timestamp.
// The active pointer and timer are left alone. Steps that are not
// completed are unaffected.
func (e *Engine) UndoStep(ctx context.Context, id string) bool {
	return e.mutate(ctx, "undo "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil || step.Status != domain.StepCompleted {
			return false
		}
		step.Status = domain.StepPending
		step.CompletedAt = nil
		e.log.Info("undid %s", id)
		return true
	})
}

// UpdateStepDuration sets the step's duration in minutes. A running timer
// keeps its end time. Callers clamp the value.
func (e *Engine) UpdateStepDuration(ctx context.Context, id string, minutes int) bool {
	return e.mutate(ctx, "duration "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil || step.DurationMin == minutes {
			return false
		}
		step.DurationMin = minutes
		return true
	})
}

// ToggleStepTip flips membership of index in the step's checked tips.
func (e *Engine) ToggleStepTip(ctx context.Context, id string, index int) bool {
	return e.mutate(ctx, "tip "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil {
			return false
		}
		step.CheckedTips = toggle(step.CheckedTips, index)
		return true
	})
}

// ToggleStepIngredient flips membership of index in the step's checked
// ingredients.
func (e *Engine) ToggleStepIngredient(ctx context.Context, id string, index int) bool {
	return e.mutate(ctx, "ingredient "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil {
			return false
		}
		step.CheckedIngredients = toggle(step.CheckedIngredients, index)
		return true
	})
}

// SaveStepNote overwrites the step's note.
func (e *Engine) SaveStepNote(ctx context.Context, id, text string) bool {
	return e.mutate(ctx, "note "+id, func(s *domain.State) bool {
		step := s.Step(id)
		if step == nil {
			return false
		}
		step.UserNote = text
		return true
	})
}

func toggle(set []int, index int) []int {
	if i := slices.Index(set, index); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, index)
}
