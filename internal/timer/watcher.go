package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher looks at the process.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithMaxNudges caps how many reminders one expired timer gets.
func WithMaxNudges(n int) WatcherOption {
	return func(w *Watcher) {
		w.maxNudges = n
	}
}

// Watcher runs on a slower cycle than the driver and nudges the baker
// when a timer has expired but the step was never completed. Dough that
// keeps fermenting unattended over-proofs.
type Watcher struct {
	source    Source
	notifier  domain.Notifier
	log       *logger.Logger
	interval  time.Duration
	maxNudges int

	nudgedFor time.Time
	nudges    int
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(source Source, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:    source,
		notifier:  notifier,
		log:       log,
		interval:  5 * time.Minute,
		maxNudges: 3,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check runs one watcher cycle and returns the message sent, if any.
func (w *Watcher) Check(ctx context.Context) string {
	state := w.source.Snapshot()
	now := w.source.Now()

	if !state.Expired(now) {
		w.log.Debug("watcher: nothing expired, active=%v", state.ActiveStepID != nil)
		return ""
	}

	end := *state.TimerEndTime
	if !w.nudgedFor.Equal(end) {
		w.nudgedFor = end
		w.nudges = 0
	}
	if now.Sub(end) < w.interval || w.nudges >= w.maxNudges {
		return ""
	}
	w.nudges++

	title := *state.ActiveStepID
	if step := state.ActiveStep(); step != nil {
		title = step.Title
	}
	msg := fmt.Sprintf("[Watcher] Heads up, %s finished %s and is waiting on you.", title, humanize.RelTime(end, now, "ago", "from now"))
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
	return msg
}
