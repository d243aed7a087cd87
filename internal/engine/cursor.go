package engine

import "github.com/hammamikhairi/levain/internal/domain"

// Cursor returns the index of the step being viewed. It is independent of
// the active step.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// ViewedStep returns a copy of the step under the cursor.
func (e *Engine) ViewedStep() domain.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Steps[e.cursor].Clone()
}

// GoToStep moves the cursor to index i. Out-of-range indices are ignored.
func (e *Engine) GoToStep(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveCursor(i)
}

// GoToNext moves the cursor forward by one, stopping at the last step.
func (e *Engine) GoToNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveCursor(e.cursor + 1)
}

// GoToPrev moves the cursor back by one, stopping at the first step.
func (e *Engine) GoToPrev() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveCursor(e.cursor - 1)
}

// FocusActive moves the cursor to the active step, if any.
func (e *Engine) FocusActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.cursor
	e.snapCursor()
	return e.cursor != before
}

func (e *Engine) moveCursor(i int) bool {
	if i < 0 || i >= len(e.state.Steps) || i == e.cursor {
		return false
	}
	e.cursor = i
	return true
}

func (e *Engine) snapCursor() {
	if e.state.ActiveStepID == nil {
		return
	}
	if i := e.state.StepIndex(*e.state.ActiveStepID); i >= 0 {
		e.cursor = i
	}
}
