package alert

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/speech"
)

var expiry = domain.Alert{
	StepID:    "bench-rest",
	StepTitle: "Bench rest",
	Title:     "Levain",
	Body:      "Step complete!",
	Vibration: []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 400 * time.Millisecond},
}

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestMultiSwallowsFailures(t *testing.T) {
	var got []string
	m := NewMulti(quiet()).
		Add("broken", Func(func(context.Context, domain.Alert) error { return errors.New("no device") })).
		Add("missing", nil).
		Add("ok", Func(func(_ context.Context, a domain.Alert) error {
			got = append(got, a.StepID)
			return nil
		}))

	assert.Equal(t, 2, m.Len())
	require.NoError(t, m.Alert(context.Background(), expiry))
	assert.Equal(t, []string{"bench-rest"}, got)
}

type pcmRecorder struct{ pcm []byte }

func (p *pcmRecorder) PlayPCM(pcm []byte) error {
	p.pcm = pcm
	return nil
}

func TestChimeFollowsPattern(t *testing.T) {
	rec := &pcmRecorder{}
	require.NoError(t, NewChime(rec).Alert(context.Background(), expiry))

	wantSamples := speech.SampleRate * 700 / 1000
	require.Len(t, rec.pcm, wantSamples*2)

	sample := func(i int) int16 { return int16(binary.LittleEndian.Uint16(rec.pcm[i*2:])) }
	gapStart := speech.SampleRate * 200 / 1000
	gapEnd := speech.SampleRate * 300 / 1000
	for i := gapStart; i < gapEnd; i++ {
		require.Zero(t, sample(i), "gap sample %d", i)
	}

	var peak int16
	for i := 0; i < gapStart; i++ {
		peak = max(peak, sample(i))
	}
	assert.Greater(t, peak, int16(1000))
}

func TestChimeDefaultPattern(t *testing.T) {
	rec := &pcmRecorder{}
	require.NoError(t, NewChime(rec).Alert(context.Background(), domain.Alert{}))
	assert.Len(t, rec.pcm, speech.SampleRate*400/1000*2)
}

func TestDesktopCommands(t *testing.T) {
	var name string
	var args []string
	d := &Desktop{run: func(_ context.Context, n string, a ...string) error {
		name, args = n, a
		return nil
	}}

	d.goos = "linux"
	require.NoError(t, d.Alert(context.Background(), expiry))
	assert.Equal(t, "notify-send", name)
	assert.Equal(t, []string{"--urgency=critical", "Levain", "Bench rest: Step complete!"}, args)

	d.goos = "darwin"
	a := expiry
	a.StepTitle = `The "final" proof`
	require.NoError(t, d.Alert(context.Background(), a))
	assert.Equal(t, "osascript", name)
	assert.Equal(t, `display notification "The \"final\" proof: Step complete!" with title "Levain"`, args[1])

	name = ""
	d.goos = "plan9"
	require.NoError(t, d.Alert(context.Background(), expiry))
	assert.Empty(t, name)
}

func TestHapticRingsPerPulse(t *testing.T) {
	var bell bytes.Buffer
	var slept time.Duration
	h := NewHaptic(&bell, quiet())
	h.sleep = func(d time.Duration) { slept += d }

	require.NoError(t, h.Alert(context.Background(), expiry))
	assert.Equal(t, "\a\a", bell.String())
	assert.Equal(t, 700*time.Millisecond, slept)

	assert.NoError(t, NewHaptic(nil, quiet()).Alert(context.Background(), expiry))
}

type sayRecorder struct {
	text     string
	priority speech.Priority
}

func (s *sayRecorder) Say(text string, p speech.Priority) {
	s.text, s.priority = text, p
}

func TestSpeakingAnnouncesStep(t *testing.T) {
	rec := &sayRecorder{}
	require.NoError(t, NewSpeaking(rec).Alert(context.Background(), expiry))
	assert.Equal(t, "Timer's up. Bench rest is done.", rec.text)
	assert.Equal(t, speech.PriorityHigh, rec.priority)
}
