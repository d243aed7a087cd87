// Package companion turns parsed intents into engine operations and
// prints the results. It is the conversational loop behind "levain run".
package companion

import (
	"context"
	"strings"

	"github.com/hammamikhairi/levain/internal/assistant"
	"github.com/hammamikhairi/levain/internal/display"
	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/engine"
	"github.com/hammamikhairi/levain/internal/journal"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/speech"
	"github.com/hammamikhairi/levain/internal/timer"
)

// Output is where the app writes. display.UI implements it.
type Output interface {
	PrintChat(text string)
	PrintStep(text string)
	PrintInstruction(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintVoice(text string)
	SetStatus(s display.Status)
}

// Compile-time interface check.
var _ Output = (*display.UI)(nil)

// Speaker is the speech queue. *speech.Mouth implements it.
type Speaker interface {
	Say(text string, priority speech.Priority)
	Interrupt()
}

// Adjuster turns a free-form change request into recipe actions.
type Adjuster interface {
	Adjust(ctx context.Context, request, bakeContext string) (*assistant.Adjustment, error)
}

// Location is where the weather is looked up.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Option configures the App.
type Option func(*App)

// WithSpeaker enables spoken output.
func WithSpeaker(s Speaker) Option {
	return func(a *App) { a.mouth = s }
}

// WithAssistant enables questions and, when asker also implements
// Adjuster, free-form recipe changes.
func WithAssistant(asker domain.Assistant) Option {
	return func(a *App) {
		a.asker = asker
		if adj, ok := asker.(Adjuster); ok {
			a.adjuster = adj
		}
	}
}

// WithWeather enables the weather command.
func WithWeather(p domain.TemperatureProvider, loc Location) Option {
	return func(a *App) {
		a.weather = p
		a.location = loc
	}
}

// App dispatches intents against the engine and journal.
type App struct {
	engine  *engine.Engine
	journal *journal.Journal
	parser  domain.IntentParser
	out     Output
	log     *logger.Logger

	mouth    Speaker          // nil when speech is disabled
	asker    domain.Assistant // nil when the assistant is disabled
	adjuster Adjuster         // nil when the assistant can't adjust
	weather  domain.TemperatureProvider
	location Location
}

// New creates the app.
func New(eng *engine.Engine, j *journal.Journal, parser domain.IntentParser, out Output, log *logger.Logger, opts ...Option) *App {
	a := &App{engine: eng, journal: j, parser: parser, out: out, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run reads typed and spoken input until ctx ends, the input channel
// closes or the user quits. voice may be nil.
func (a *App) Run(ctx context.Context, typed, voice <-chan string) {
	a.say(speech.LineWelcome(), speech.PriorityNormal)
	a.showViewed()
	a.Refresh()

	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-typed:
			if !ok {
				return
			}
			input = v
		case v := <-voice:
			a.out.PrintVoice(v)
			input = v
		}

		if !a.Handle(ctx, input) {
			a.say(speech.LineBye(), speech.PriorityHigh)
			return
		}
	}
}

// Handle parses and dispatches one line of input. It returns false when
// the user asked to quit.
func (a *App) Handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}
	intent, err := a.parser.Parse(ctx, input)
	if err != nil {
		a.log.Error("parsing input: %v", err)
		return true
	}
	a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

	if intent.Type == domain.IntentQuit {
		return false
	}
	if a.mouth != nil && intent.Type != domain.IntentRead {
		a.mouth.Interrupt()
	}
	a.dispatch(ctx, intent)
	a.Refresh()
	return true
}

// Refresh pushes the current bar contents to the output. Subscribe it to
// timer ticks so the countdown stays live.
func (a *App) Refresh() {
	s := a.engine.Snapshot()
	now := a.engine.Now()
	viewed := a.engine.ViewedStep()
	done, total := a.engine.Progress()

	status := display.Status{
		StepOrder: a.engine.Cursor() + 1,
		StepTotal: total,
		StepTitle: viewed.Title,
		Completed: done,
		RoomTemp:  s.RoomTemp,
		Title:     timer.Title(s, now),
	}
	if s.TimerRunning() {
		if active := s.ActiveStep(); active != nil {
			status.TimerStep = active.Title
		}
		status.Countdown = timer.FormatRemaining(s.Remaining(now))
		status.Expired = s.Expired(now)
	}
	a.out.SetStatus(status)
}

// OnTick adapts Refresh to the timer driver's callback.
func (a *App) OnTick(timer.Tick) { a.Refresh() }

// say prints a conversational line and queues it for speech.
func (a *App) say(text string, priority speech.Priority) {
	a.out.PrintChat(text)
	if a.mouth != nil {
		a.mouth.Say(text, priority)
	}
}

func (a *App) hint(text string) {
	a.out.PrintHint(text)
}

func (a *App) lines(lines []string) {
	for _, l := range lines {
		a.out.PrintInstruction(l)
	}
}
