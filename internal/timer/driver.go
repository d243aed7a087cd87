// Package timer drives the countdown of the active step and fires the
// expiry alert.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Source is the read side of the process the driver watches.
type Source interface {
	Snapshot() domain.State
	Now() time.Time
}

// Vibration is the on/off pattern sent with every expiry alert.
var Vibration = []time.Duration{
	200 * time.Millisecond,
	100 * time.Millisecond,
	200 * time.Millisecond,
	100 * time.Millisecond,
	400 * time.Millisecond,
}

// Tick is what the driver observed on one cycle.
type Tick struct {
	Running   bool
	StepID    string
	StepTitle string
	Remaining time.Duration
	Expired   bool
	Fired     bool // the alert went out on this tick
	Countdown string
	Title     string
}

// Option configures the driver.
type Option func(*Driver)

// WithTickInterval sets how often the driver checks the timer.
func WithTickInterval(d time.Duration) Option {
	return func(dr *Driver) {
		dr.tickInterval = d
	}
}

// WithAlmostDoneThreshold sets how close to expiry a timer must be to
// trigger the "almost done" notice. Zero disables it.
func WithAlmostDoneThreshold(d time.Duration) Option {
	return func(dr *Driver) {
		dr.almostDoneThreshold = d
	}
}

// WithNotifier sends the "almost done" notice through n.
func WithNotifier(n domain.Notifier) Option {
	return func(dr *Driver) {
		dr.notifier = n
	}
}

// WithOnTick registers a callback invoked after every check, for
// countdown and window title updates.
func WithOnTick(fn func(Tick)) Option {
	return func(dr *Driver) {
		dr.onTick = fn
	}
}

// Driver ticks at a fixed interval while a timer runs and sleeps
// otherwise. Each timer instance, identified by its end time, raises at
// most one alert. The driver never changes the process state: an expired
// timer stays in place until the user completes or starts a step.
type Driver struct {
	source              Source
	sink                domain.AlertSink
	notifier            domain.Notifier
	log                 *logger.Logger
	tickInterval        time.Duration
	almostDoneThreshold time.Duration
	onTick              func(Tick)

	wake chan struct{}

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	firedFor  time.Time
	warnedFor time.Time
}

// New creates a driver with the given dependencies and options.
func New(source Source, sink domain.AlertSink, log *logger.Logger, opts ...Option) *Driver {
	d := &Driver{
		source:              source,
		sink:                sink,
		log:                 log,
		tickInterval:        1 * time.Second,
		almostDoneThreshold: time.Minute,
		wake:                make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins the background loop. Non-blocking.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.log.Warn("timer driver already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.loop(childCtx, d.done)
	d.Wake()

	d.log.Info("timer driver started (tick=%s)", d.tickInterval)
}

// Stop shuts down the loop and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.running = false
	done := d.done
	d.mu.Unlock()

	<-done
	d.log.Info("timer driver stopped")
}

// Wake tells the driver the state changed. Subscribe it to the engine so
// a newly started timer begins ticking without waiting. Never blocks.
func (d *Driver) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Observe adapts Wake to the engine's observer signature.
func (d *Driver) Observe(domain.State) {
	d.Wake()
}

// loop idles until woken, then ticks while a timer is running.
func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
		case <-tickC:
		}

		t := d.Check(ctx)
		if t.Running && !t.Fired && !t.Expired {
			if ticker == nil {
				ticker = time.NewTicker(d.tickInterval)
				tickC = ticker.C
			}
			continue
		}
		stopTicker()
	}
}

// Check runs one cycle: compute the remaining time, fire the alert if the
// timer just reached zero and report what happened.
func (d *Driver) Check(ctx context.Context) Tick {
	state := d.source.Snapshot()
	now := d.source.Now()

	t := Tick{
		Running:   state.TimerRunning(),
		Countdown: FormatRemaining(0),
		Title:     Title(state, now),
	}
	if t.Running {
		step := state.ActiveStep()
		t.StepID = *state.ActiveStepID
		if step != nil {
			t.StepTitle = step.Title
		}
		t.Remaining = state.Remaining(now)
		t.Expired = state.Expired(now)
		t.Countdown = FormatRemaining(t.Remaining)

		end := *state.TimerEndTime
		if t.Expired {
			t.Fired = d.fire(ctx, end, t)
		} else if step != nil && step.Duration() > 2*d.almostDoneThreshold {
			d.maybeWarn(ctx, end, t)
		}
	}

	if d.onTick != nil {
		d.onTick(t)
	}
	return t
}

// fire sends the alert once per timer instance.
func (d *Driver) fire(ctx context.Context, end time.Time, t Tick) bool {
	d.mu.Lock()
	if d.firedFor.Equal(end) {
		d.mu.Unlock()
		return false
	}
	d.firedFor = end
	d.mu.Unlock()

	d.log.Info("timer for %s expired", t.StepID)
	alert := domain.Alert{
		StepID:    t.StepID,
		StepTitle: t.StepTitle,
		Title:     AppName,
		Body:      "Step complete!",
		Vibration: Vibration,
	}
	if err := d.sink.Alert(ctx, alert); err != nil {
		d.log.Error("timer: alert for %s: %v", t.StepID, err)
	}
	return true
}

// maybeWarn sends a single "almost done" notice when the remaining time
// first drops under the threshold.
func (d *Driver) maybeWarn(ctx context.Context, end time.Time, t Tick) {
	if d.notifier == nil || d.almostDoneThreshold <= 0 || t.Remaining > d.almostDoneThreshold {
		return
	}

	d.mu.Lock()
	if d.warnedFor.Equal(end) {
		d.mu.Unlock()
		return
	}
	d.warnedFor = end
	d.mu.Unlock()

	msg := fmt.Sprintf("[Timer] %s, almost done, %s left.", t.StepTitle, spoken(t.Remaining))
	if err := d.notifier.Notify(ctx, msg); err != nil {
		d.log.Error("timer: almost-done notify: %v", err)
	}
}
