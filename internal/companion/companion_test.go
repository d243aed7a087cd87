package companion

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/levain/internal/assistant"
	"github.com/hammamikhairi/levain/internal/conversation"
	"github.com/hammamikhairi/levain/internal/display"
	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/engine"
	"github.com/hammamikhairi/levain/internal/journal"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/recipe"
	"github.com/hammamikhairi/levain/internal/speech"
	"github.com/hammamikhairi/levain/internal/storage"
)

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

type recorder struct {
	chat, step, instr, hint, urgent, voice []string
	status                                 []display.Status
}

func (r *recorder) PrintChat(s string)         { r.chat = append(r.chat, s) }
func (r *recorder) PrintStep(s string)         { r.step = append(r.step, s) }
func (r *recorder) PrintInstruction(s string)  { r.instr = append(r.instr, s) }
func (r *recorder) PrintHint(s string)         { r.hint = append(r.hint, s) }
func (r *recorder) PrintUrgent(s string)       { r.urgent = append(r.urgent, s) }
func (r *recorder) PrintVoice(s string)        { r.voice = append(r.voice, s) }
func (r *recorder) SetStatus(s display.Status) { r.status = append(r.status, s) }

func (r *recorder) lastHint() string {
	if len(r.hint) == 0 {
		return ""
	}
	return r.hint[len(r.hint)-1]
}

type said struct {
	text     string
	priority speech.Priority
}

type fakeSpeaker struct {
	said       []said
	interrupts int
}

func (f *fakeSpeaker) Say(text string, p speech.Priority) { f.said = append(f.said, said{text, p}) }
func (f *fakeSpeaker) Interrupt()                         { f.interrupts++ }

type fakeBaker struct {
	answer  string
	adjust  *assistant.Adjustment
	context string
}

func (f *fakeBaker) Ask(_ context.Context, _, bakeContext string) string {
	f.context = bakeContext
	return f.answer
}

func (f *fakeBaker) Adjust(_ context.Context, _, bakeContext string) (*assistant.Adjustment, error) {
	f.context = bakeContext
	return f.adjust, nil
}

type fixedTemp float64

func (f fixedTemp) CurrentTemperature(context.Context, float64, float64) (float64, error) {
	return float64(f), nil
}

var start = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type harness struct {
	app   *App
	eng   *engine.Engine
	jrnl  *journal.Journal
	out   *recorder
	mouth *fakeSpeaker
	now   time.Time
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{out: &recorder{}, mouth: &fakeSpeaker{}, now: start}
	log := quiet()
	h.eng = engine.New(recipe.Default(log), nil, log, engine.WithClock(func() time.Time { return h.now }))
	h.jrnl = journal.New(context.Background(), storage.NewSnapshots(storage.NewMemoryStore(log), log), log)
	opts = append([]Option{WithSpeaker(h.mouth)}, opts...)
	h.app = New(h.eng, h.jrnl, conversation.NewKeywordParser(log), h.out, log, opts...)
	return h
}

func (h *harness) handle(t *testing.T, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		require.True(t, h.app.Handle(context.Background(), in), "input %q quit the app", in)
	}
}

func TestStartAndComplete(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "start")
	s := h.eng.Snapshot()
	require.NotNil(t, s.ActiveStepID)
	assert.Equal(t, "starter-feed", *s.ActiveStepID)
	assert.True(t, s.TimerRunning())
	require.NotEmpty(t, h.mouth.said)
	assert.Contains(t, h.mouth.said[0].text, "Feed the starter started")
	assert.Equal(t, 1, h.mouth.interrupts)

	h.handle(t, "done")
	s = h.eng.Snapshot()
	assert.Equal(t, domain.StepCompleted, s.Steps[0].Status)
	assert.Nil(t, s.ActiveStepID)
	assert.Equal(t, 1, h.eng.Cursor())
	assert.Contains(t, h.out.step[len(h.out.step)-1], "Step 2/")

	h.handle(t, "prev", "done")
	assert.Contains(t, h.out.lastHint(), "already done")

	h.handle(t, "undo")
	assert.Equal(t, domain.StepPending, h.eng.Snapshot().Steps[0].Status)
}

func TestStartByNumberAndID(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "start 3")
	s := h.eng.Snapshot()
	require.NotNil(t, s.ActiveStepID)
	assert.Equal(t, "add-starter", *s.ActiveStepID)
	assert.Equal(t, 2, h.eng.Cursor())

	h.handle(t, "start add-salt")
	assert.Equal(t, "add-salt", *h.eng.Snapshot().ActiveStepID)
	assert.Equal(t, domain.StepPending, h.eng.Snapshot().Steps[2].Status)

	h.handle(t, "start 99")
	assert.Contains(t, h.out.lastHint(), `no step "99"`)

	h.handle(t, "start add-salt")
	assert.Contains(t, h.out.lastHint(), "already running")
}

func TestNavigation(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "back")
	assert.Equal(t, "That's the first step.", h.out.lastHint())

	h.handle(t, "step 4")
	assert.Equal(t, 3, h.eng.Cursor())
	h.handle(t, "12")
	assert.Equal(t, 11, h.eng.Cursor())

	h.handle(t, "step 400")
	assert.Contains(t, h.out.lastHint(), "Pick a step between 1 and")
	assert.Equal(t, 11, h.eng.Cursor())

	h.handle(t, "focus")
	assert.Equal(t, "No step is active.", h.out.lastHint())
}

func TestChecklists(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "tip 2", "check 3")
	step := h.eng.ViewedStep()
	assert.Equal(t, []int{1}, step.CheckedTips)
	assert.Equal(t, []int{2}, step.CheckedIngredients)

	h.handle(t, "tip 2")
	assert.Empty(t, h.eng.ViewedStep().CheckedTips)

	h.handle(t, "tip 9")
	assert.Equal(t, "Feed the starter has 3 tips.", h.out.lastHint())

	h.handle(t, "step 5", "check 1")
	assert.Equal(t, "Stretch and fold 1 has 0 ingredients.", h.out.lastHint())
}

func TestRecipeSettings(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "flour 500g", "hydration 75%", "starter 20", "salt 2.5")
	s := h.eng.Snapshot()
	assert.Equal(t, 500, s.FlourWeight)
	assert.Equal(t, 75.0, s.Hydration)
	assert.Equal(t, 20.0, s.StarterRatio)
	assert.Equal(t, 2.5, s.SaltRatio)

	h.handle(t, "loaves 2")
	s = h.eng.Snapshot()
	assert.Equal(t, 2, s.LoafCount)
	assert.Equal(t, 1000, s.FlourWeight)

	h.handle(t, "flour 1000")
	assert.Equal(t, "Flour 1000g: nothing changed.", h.out.lastHint())

	h.handle(t, "temp 30")
	assert.Equal(t, 30.0, h.eng.Snapshot().RoomTemp)
	assert.Less(t, h.eng.Snapshot().Steps[0].DurationMin, 240)
}

type scriptedParser struct{ intent domain.Intent }

func (p scriptedParser) Parse(context.Context, string) (*domain.Intent, error) {
	in := p.intent
	return &in, nil
}

func TestNonFiniteNumbersRejected(t *testing.T) {
	for _, payload := range []string{"NaN", "Inf", "-inf"} {
		h := newHarness(t)
		h.app.parser = scriptedParser{domain.Intent{Type: domain.IntentTemp, Payload: payload}}
		h.handle(t, "whatever the classifier said")
		assert.Equal(t, "Room temperature needs a number.", h.out.lastHint(), payload)
		assert.Equal(t, 24.0, h.eng.Snapshot().RoomTemp, payload)
	}
}

func TestStepEdits(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "duration 200", "note smelled fruity")
	step := h.eng.ViewedStep()
	assert.Equal(t, 200, step.DurationMin)
	assert.Equal(t, "smelled fruity", step.UserNote)

	h.handle(t, "duration 200")
	assert.Contains(t, h.out.lastHint(), "already 200 minutes")
}

func TestFinishLogsBake(t *testing.T) {
	h := newHarness(t)

	h.handle(t, "finish")
	assert.Contains(t, h.out.lastHint(), "Rate the bake")
	assert.Equal(t, 0, h.jrnl.Len())

	h.handle(t, "done", "finish 4 great oven spring")
	require.Equal(t, 1, h.jrnl.Len())
	entry := h.jrnl.List()[0]
	assert.Equal(t, 4, entry.Rating)
	assert.Equal(t, "great oven spring", entry.Notes)
	assert.Equal(t, 240, entry.DurationTotalMin)

	h.handle(t, "journal")
	assert.Contains(t, strings.Join(h.out.instr, "\n"), "★★★★☆")

	// The process is kept until the user resets.
	assert.Equal(t, domain.StepCompleted, h.eng.Snapshot().Steps[0].Status)
	h.handle(t, "reset")
	assert.Equal(t, domain.StepPending, h.eng.Snapshot().Steps[0].Status)
	assert.Equal(t, 1, h.jrnl.Len())
}

func TestParseFinish(t *testing.T) {
	tests := []struct {
		in     string
		rating int
		notes  string
		ok     bool
	}{
		{"5", 5, "", true},
		{"3  a bit dense ", 3, "a bit dense", true},
		{"", 0, "", false},
		{"great", 0, "", false},
	}
	for _, tt := range tests {
		rating, notes, ok := parseFinish(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.rating, rating, tt.in)
		assert.Equal(t, tt.notes, notes, tt.in)
	}
}

func TestAssistant(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "ask is my dough ready?")
	assert.Equal(t, "The assistant is off.", h.out.lastHint())

	baker := &fakeBaker{
		answer: "Look for a domed, jiggly dough.",
		adjust: &assistant.Adjustment{
			Actions: []assistant.Action{{Type: assistant.ActionSetFlour, Value: 800}},
			Summary: "Scaled to 800g flour.",
		},
	}
	h = newHarness(t, WithAssistant(baker))

	h.handle(t, "is my dough ready?")
	assert.Equal(t, "Look for a domed, jiggly dough.", h.out.chat[len(h.out.chat)-1])
	assert.Contains(t, baker.context, "[Current Bake]")

	h.handle(t, "i only have 800g of flour")
	assert.Equal(t, 800, h.eng.Snapshot().FlourWeight)
	assert.Equal(t, "Scaled to 800g flour.", h.out.chat[len(h.out.chat)-1])
}

func TestWeather(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "weather")
	assert.Contains(t, h.out.lastHint(), "isn't configured")

	h = newHarness(t, WithWeather(fixedTemp(18.6), Location{Latitude: 48.85, Longitude: 2.35}))
	h.handle(t, "weather")
	assert.Equal(t, 19.0, h.eng.Snapshot().RoomTemp)
}

func TestReadUsesLowPriority(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "read")
	require.Len(t, h.mouth.said, 1)
	assert.Equal(t, speech.PriorityLow, h.mouth.said[0].priority)
	assert.Zero(t, h.mouth.interrupts)
}

func TestUnknownAndQuit(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "flibbertigibbet")
	assert.Contains(t, h.out.lastHint(), "didn't catch that")

	assert.False(t, h.app.Handle(context.Background(), "quit"))
}

func TestRefreshStatus(t *testing.T) {
	h := newHarness(t)
	h.handle(t, "start")

	h.now = start.Add(90 * time.Minute)
	h.app.Refresh()
	st := h.out.status[len(h.out.status)-1]
	assert.Equal(t, 1, st.StepOrder)
	assert.Equal(t, "Feed the starter", st.TimerStep)
	assert.Equal(t, "02:30:00", st.Countdown)
	assert.False(t, st.Expired)

	h.now = start.Add(5 * time.Hour)
	h.app.Refresh()
	st = h.out.status[len(h.out.status)-1]
	assert.True(t, st.Expired)
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	h := newHarness(t)
	typed := make(chan string)
	voice := make(chan string)
	done := make(chan struct{})

	go func() {
		h.app.Run(context.Background(), typed, voice)
		close(done)
	}()

	voice <- "next"
	typed <- "status"
	close(typed)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after input closed")
	}
	assert.Equal(t, []string{"next"}, h.out.voice)
	assert.Equal(t, 1, h.eng.Cursor())
}
