// Package domain defines the core types and interfaces for the baking companion.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"slices"
	"time"
)

// StepStatus tracks the state of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
)

// String returns a human-readable step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending, StepActive, StepCompleted:
		return string(s)
	default:
		return "unknown"
	}
}

// Step is one unit of the baking process together with the user's progress on it.
type Step struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	DurationMin        int        `json:"durationMin"` // 0 means manual, no timer
	Status             StepStatus `json:"status"`
	Tips               []string   `json:"tips,omitempty"`
	CheckedTips        []int      `json:"checkedTips,omitempty"`
	CheckedIngredients []int      `json:"checkedIngredients,omitempty"`
	UserNote           string     `json:"userNote,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
}

// Timed reports whether the step runs a countdown when started.
func (s *Step) Timed() bool {
	return s.DurationMin > 0
}

// Duration returns the step duration as a time.Duration.
func (s *Step) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

// TipChecked reports whether the tip at index i has been acknowledged.
func (s *Step) TipChecked(i int) bool {
	return slices.Contains(s.CheckedTips, i)
}

// IngredientChecked reports whether the ingredient at index i has been acknowledged.
func (s *Step) IngredientChecked(i int) bool {
	return slices.Contains(s.CheckedIngredients, i)
}

// Clone returns a copy of the step that shares no slices or pointers with s.
func (s Step) Clone() Step {
	s.Tips = slices.Clone(s.Tips)
	s.CheckedTips = slices.Clone(s.CheckedTips)
	s.CheckedIngredients = slices.Clone(s.CheckedIngredients)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return s
}
