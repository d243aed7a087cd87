package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

func quiet() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestAzureSynthesize(t *testing.T) {
	var gotBody, gotKey, gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotFormat = r.Header.Get("X-Microsoft-OutputFormat")
		w.Write([]byte("RIFF-audio"))
	}))
	defer server.Close()

	c := NewAzureClient("secret", "westeurope", quiet(), WithEndpoint(server.URL), WithVoice("en-US-AvaNeural"))
	audio, err := c.Synthesize(context.Background(), "Salt & water <now>")
	require.NoError(t, err)

	assert.Equal(t, "RIFF-audio", string(audio))
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, OutputFormat, gotFormat)
	assert.Contains(t, gotBody, "name='en-US-AvaNeural'")
	assert.Contains(t, gotBody, "Salt &amp; water &lt;now&gt;")
}

func TestAzureSynthesizeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewAzureClient("k", "r", quiet(), WithEndpoint(server.URL))
	_, err := c.Synthesize(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestAzureDefaultEndpoint(t *testing.T) {
	c := NewAzureClient("k", "eastus", quiet())
	assert.Equal(t, "https://eastus.tts.speech.microsoft.com/cognitiveservices/v1", c.endpoint)
}

type fakeTTS struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if text == f.fail {
		return nil, errors.New("boom")
	}
	return []byte(text), nil
}

type fakeSink struct {
	mu     sync.Mutex
	played []string
}

func (f *fakeSink) Play(wav []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, string(wav))
	return nil
}

func (f *fakeSink) Stop() {}

func (f *fakeSink) list() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.played...)
}

func TestMouthPriorityAndCache(t *testing.T) {
	tts := &fakeTTS{}
	sink := &fakeSink{}
	m := NewMouth(tts, sink, DefaultVoice, quiet())

	// Queue before starting so ordering is decided by priority alone.
	m.Say("low nudge", PriorityLow)
	m.Say("fold the dough", PriorityNormal)
	m.Say("timer up", PriorityHigh)
	m.Say("   ", PriorityHigh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	require.Eventually(t, func() bool { return len(sink.list()) == 2 && !m.Busy() }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"timer up", "fold the dough"}, sink.list(), "low item should be flushed by the normal one")

	require.NoError(t, m.Speak(ctx, "timer up"))
	require.Eventually(t, func() bool { return len(sink.list()) == 3 }, 2*time.Second, 5*time.Millisecond)

	hits, _ := m.Cache().Stats()
	assert.Equal(t, int64(1), hits)
	assert.Len(t, tts.calls, 2)
}

func TestMouthSkipsFailedChunks(t *testing.T) {
	tts := &fakeTTS{fail: "Second one."}
	sink := &fakeSink{}
	m := NewMouth(tts, sink, DefaultVoice, quiet(), WithChunkSize(12))

	m.process(context.Background(), utterance{text: "First one. Second one. Third one.", queued: time.Now()})
	assert.Equal(t, []string{"First one.", "Third one."}, sink.list())
}

func TestSplitChunks(t *testing.T) {
	m := NewMouth(&fakeTTS{}, &fakeSink{}, DefaultVoice, quiet(), WithChunkSize(20))

	assert.Equal(t, []string{"short"}, m.splitChunks("short"))
	assert.Equal(t,
		[]string{"Fold the dough.", "Turn the bowl.", "Repeat four times!"},
		m.splitChunks("Fold the dough. Turn the bowl. Repeat four times!"))
}

func TestAudioCacheEvicts(t *testing.T) {
	c := NewAudioCache("v", 2)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))
	c.Put("a", []byte("1b"))
	c.Put("c", []byte("3"))

	_, ok := c.Get("a")
	assert.False(t, ok)
	got, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "3", string(got))
	assert.Equal(t, 2, c.Len())

	other := NewAudioCache("w", 0)
	other.Put("b", []byte("x"))
	assert.NotEqual(t, c.hashKey("b"), other.hashKey("b"))
}

func TestCleanTranscription(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  next  ", "next"},
		{"[BLANK_AUDIO]", ""},
		{"(keyboard clicking) start", "start"},
		{"[00:00:00.000 --> 00:00:02.000]  done", "done"},
		{"Thank you.", ""},
		{"you", ""},
		{"set\nflour\r\n900", "set flour 900"},
		{"(silence)", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanTranscription(tt.in), "input %q", tt.in)
	}
}

func TestEarListenOnce(t *testing.T) {
	e := NewEar("whisper-cli-missing", "model.bin", nil, quiet(), WithMaxSilence(1))
	script := []string{"start", "the (music) timer", "[BLANK_AUDIO]"}
	e.record = func(context.Context, time.Duration) string {
		s := script[0]
		script = script[1:]
		return s
	}
	assert.Equal(t, "start the timer", e.listenOnce(context.Background()))

	e.record = func(context.Context, time.Duration) string { return "" }
	assert.Equal(t, "", e.listenOnce(context.Background()))
}

func TestReminders(t *testing.T) {
	screen := &recordingNotifier{}
	m := NewMouth(&fakeTTS{}, &fakeSink{}, DefaultVoice, quiet())
	r := NewReminders(screen, m, quiet())

	require.NoError(t, r.NotifyUrgent(context.Background(), "[Timer] \x1b[1mBench rest\x1b[0m is up."))
	require.NoError(t, r.Notify(context.Background(), "[Watcher] ⏰"))
	assert.Equal(t, []string{"[Timer] \x1b[1mBench rest\x1b[0m is up.", "[Watcher] ⏰"}, screen.msgs)

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.queue, 1)
	assert.Equal(t, "Bench rest is up.", m.queue[0].text)
	assert.Equal(t, PriorityHigh, m.queue[0].priority)
}

func TestSpokenForm(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[Watcher] Heads up, Shape finished 5 minutes ago.", "Heads up, Shape finished 5 minutes ago."},
		{"🔔 Final proof is up", "Final proof is up"},
		{"It's 28°C, hydration 75%", "It's 28 degrees, hydration 75 percent"},
		{"\x1b[33m[Timer]\x1b[0m   Bulk,  almost done", "Bulk, almost done"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, spokenForm(tt.in), tt.in)
	}
}

type recordingNotifier struct{ msgs []string }

func (r *recordingNotifier) Notify(_ context.Context, msg string) error {
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingNotifier) NotifyUrgent(ctx context.Context, msg string) error {
	return r.Notify(ctx, msg)
}

func wavClip(rate uint32, pcm []byte) []byte {
	wav := append([]byte{}, "RIFF"...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(36+len(pcm)))
	wav = append(wav, "WAVEfmt "...)
	wav = binary.LittleEndian.AppendUint32(wav, 16)
	wav = binary.LittleEndian.AppendUint16(wav, 1) // PCM
	wav = binary.LittleEndian.AppendUint16(wav, 1)
	wav = binary.LittleEndian.AppendUint32(wav, rate)
	wav = binary.LittleEndian.AppendUint32(wav, rate*2)
	wav = binary.LittleEndian.AppendUint16(wav, 2)
	wav = binary.LittleEndian.AppendUint16(wav, 16)
	wav = append(wav, "data"...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(len(pcm)))
	return append(wav, pcm...)
}

func TestWAVSamples(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	got, err := wavSamples(wavClip(SampleRate, pcm))
	require.NoError(t, err)
	assert.Equal(t, pcm, got)

	_, err = wavSamples(wavClip(16000, pcm))
	assert.ErrorContains(t, err, "16000 Hz")

	_, err = wavSamples([]byte("short"))
	assert.ErrorIs(t, err, errNotWAV)
	_, err = wavSamples([]byte(strings.Repeat("x", 64)))
	assert.ErrorIs(t, err, errNotWAV)
	_, err = wavSamples(wavClip(SampleRate, pcm)[:36])
	assert.ErrorIs(t, err, errNotWAV)

	assert.Equal(t, 500*time.Millisecond, clipLength(SampleRate))
}

func TestLines(t *testing.T) {
	assert.Equal(t, "4 hours", FormatDurationSpeech(4*time.Hour))
	assert.Equal(t, "1 hour 1 minute", FormatDurationSpeech(61*time.Minute))
	assert.Equal(t, "30 minutes", FormatDurationSpeech(30*time.Minute))
	assert.Equal(t, "0 seconds", FormatDurationSpeech(0))

	step := domain.Step{Title: "Bench rest", Description: "Let it relax.", DurationMin: 20, Tips: []string{"Flour the top"}}
	assert.Equal(t, "Step 11 of 18. Bench rest. Let it relax. Tip: Flour the top. This takes about 20 minutes.", LineStep(11, 18, step))
	assert.Equal(t, "Bench rest started. Timer set for 20 minutes.", LineStarted(step))
}
