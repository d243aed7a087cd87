// Package engine implements the bake process state machine: step
// progression, the single active timer, recipe scalars and the
// navigation cursor.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/recipe"
)

// Defaults are the recipe scalars a fresh process starts with.
type Defaults struct {
	FlourWeight  int
	Hydration    float64
	StarterRatio float64
	SaltRatio    float64
	LoafCount    int
	RoomTemp     float64
}

// StandardDefaults returns the built-in scalars: 1000g flour, 60%
// hydration, 30% starter, 3.5% salt, one loaf at 24°C.
func StandardDefaults() Defaults {
	return Defaults{
		FlourWeight:  domain.DefaultFlourWeight,
		Hydration:    domain.DefaultHydration,
		StarterRatio: domain.DefaultStarterRatio,
		SaltRatio:    domain.DefaultSaltRatio,
		LoafCount:    domain.DefaultLoafCount,
		RoomTemp:     domain.DefaultRoomTemp,
	}
}

// Option configures the engine.
type Option func(*Engine)

// WithDefaults sets the scalars used for fresh and reset processes.
func WithDefaults(d Defaults) Option {
	return func(e *Engine) {
		e.defaults = d
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Observer is called with a copy of the state after every change.
type Observer func(domain.State)

// Engine owns the process state. Every mutation goes through one of its
// methods, is applied under a single lock and is persisted before the
// lock is released. Engine is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	state     domain.State
	cursor    int
	catalog   *recipe.Catalog
	saver     domain.StateSaver
	log       *logger.Logger
	now       func() time.Time
	defaults  Defaults
	observers []Observer
}

// New creates an engine holding a fresh process built from the catalog.
// Call Restore to resume a persisted one.
func New(catalog *recipe.Catalog, saver domain.StateSaver, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		saver:    saver,
		log:      log,
		now:      time.Now,
		defaults: StandardDefaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.fresh()
	return e
}

// Subscribe registers an observer. Observers run outside the engine lock
// and may call back into the engine.
func (e *Engine) Subscribe(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Restore replaces the state with a persisted snapshot. A nil snapshot or
// one without steps falls back to a fresh process. The cursor snaps to the
// active step if there is one.
func (e *Engine) Restore(saved *domain.State) {
	e.mu.Lock()
	if saved == nil || len(saved.Steps) == 0 {
		e.log.Info("no usable saved state, starting fresh")
		e.state = e.fresh()
	} else {
		e.state = saved.Clone()
		e.normalize()
		e.log.Info("restored process: %d steps, active=%s", len(e.state.Steps), activeName(&e.state))
	}
	e.cursor = 0
	e.snapCursor()
	snap := e.state.Clone()
	observers := e.observers
	e.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// Reset discards all progress and starts over with a fresh catalog copy
// and default scalars. Bake history is not touched.
func (e *Engine) Reset(ctx context.Context) {
	e.mutate(ctx, "reset", func(s *domain.State) bool {
		*s = e.fresh()
		e.cursor = 0
		return true
	})
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Amounts returns the ingredient weights for the current scalars.
func (e *Engine) Amounts() recipe.Amounts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return recipe.AmountsFor(e.state)
}

// Remaining returns the time left on the running timer, or zero.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Remaining(e.now())
}

// Progress returns how many steps are completed out of the total.
func (e *Engine) Progress() (completed, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Steps {
		if e.state.Steps[i].Status == domain.StepCompleted {
			completed++
		}
	}
	return completed, len(e.state.Steps)
}

// Catalog returns the step catalog the engine was built with.
func (e *Engine) Catalog() *recipe.Catalog {
	return e.catalog
}

// mutate applies fn under the lock. When fn reports a change the new state
// is persisted and observers are notified.
func (e *Engine) mutate(ctx context.Context, op string, fn func(s *domain.State) bool) bool {
	e.mu.Lock()
	if !fn(&e.state) {
		e.mu.Unlock()
		e.log.Debug("%s: no change", op)
		return false
	}
	snap := e.state.Clone()
	e.persist(ctx, op, snap)
	observers := e.observers
	e.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return true
}

// persist writes the snapshot. A failed write leaves the previous snapshot
// in place, so errors are only logged.
func (e *Engine) persist(ctx context.Context, op string, snap domain.State) {
	if e.saver == nil {
		return
	}
	if err := e.saver.SaveState(ctx, snap); err != nil {
		e.log.Warn("%s: saving state: %v", op, err)
	}
}

func (e *Engine) fresh() domain.State {
	d := e.defaults
	if d.LoafCount < 1 {
		d.LoafCount = 1
	}
	s := domain.State{
		FlourWeight:  d.FlourWeight,
		Hydration:    d.Hydration,
		RoomTemp:     d.RoomTemp,
		StarterRatio: d.StarterRatio,
		SaltRatio:    d.SaltRatio,
		LoafCount:    d.LoafCount,
		Steps:        e.catalog.Instantiate(),
	}
	e.applyTemperature(&s)
	return s
}

// normalize repairs a restored snapshot so that at most one step is active
// and the timer pointer is consistent with it.
func (e *Engine) normalize() {
	s := &e.state
	if s.LoafCount < 1 {
		s.LoafCount = 1
	}

	active := s.ActiveStep()
	if active == nil || active.Status == domain.StepCompleted {
		s.ActiveStepID = nil
		s.TimerEndTime = nil
	} else {
		active.Status = domain.StepActive
		if !active.Timed() {
			s.TimerEndTime = nil
		}
	}

	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Status == domain.StepActive && (s.ActiveStepID == nil || st.ID != *s.ActiveStepID) {
			e.log.Warn("restored step %s was active without the pointer, marking pending", st.ID)
			st.Status = domain.StepPending
		}
	}
}

func activeName(s *domain.State) string {
	if s.ActiveStepID == nil {
		return "none"
	}
	return *s.ActiveStepID
}
