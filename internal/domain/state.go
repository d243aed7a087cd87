package domain

import "time"

// Default recipe scalars used for a fresh process.
const (
	DefaultFlourWeight  = 1000
	DefaultHydration    = 60.0
	DefaultStarterRatio = 30.0
	DefaultSaltRatio    = 3.5
	DefaultLoafCount    = 1
	DefaultRoomTemp     = 24.0
)

// State is the aggregate root of a bake in progress. It is persisted as a
// single JSON document.
type State struct {
	FlourWeight  int        `json:"flourWeight"`
	Hydration    float64    `json:"hydration"`
	RoomTemp     float64    `json:"roomTemp"`
	StarterRatio float64    `json:"starterRatio"`
	SaltRatio    float64    `json:"saltRatio"`
	LoafCount    int        `json:"loafCount"`
	Steps        []Step     `json:"steps"`
	ActiveStepID *string    `json:"activeStepId"`
	TimerEndTime *time.Time `json:"timerEndTime"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	steps := make([]Step, len(s.Steps))
	for i := range s.Steps {
		steps[i] = s.Steps[i].Clone()
	}
	s.Steps = steps
	if s.ActiveStepID != nil {
		id := *s.ActiveStepID
		s.ActiveStepID = &id
	}
	if s.TimerEndTime != nil {
		t := *s.TimerEndTime
		s.TimerEndTime = &t
	}
	return s
}

// StepIndex returns the position of the step with the given id, or -1.
func (s *State) StepIndex(id string) int {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// Step returns the step with the given id, or nil.
func (s *State) Step(id string) *Step {
	if i := s.StepIndex(id); i >= 0 {
		return &s.Steps[i]
	}
	return nil
}

// ActiveStep returns the step referenced by ActiveStepID, or nil.
func (s *State) ActiveStep() *Step {
	if s.ActiveStepID == nil {
		return nil
	}
	return s.Step(*s.ActiveStepID)
}

// TimerRunning reports whether a countdown is attached to the active step.
func (s *State) TimerRunning() bool {
	return s.TimerEndTime != nil && s.ActiveStepID != nil
}

// Remaining returns the time left on the running timer, floored at zero.
// It returns zero when no timer is running.
func (s *State) Remaining(now time.Time) time.Duration {
	if !s.TimerRunning() {
		return 0
	}
	left := s.TimerEndTime.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a running timer has reached zero. Expiry is an
// observation: the state keeps its end time until the user moves on.
func (s *State) Expired(now time.Time) bool {
	return s.TimerRunning() && !now.Before(*s.TimerEndTime)
}
