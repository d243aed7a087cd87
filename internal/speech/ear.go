package speech

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/levain/internal/logger"
)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]" or "(speaking French)".
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)

// hallucinations are whole transcriptions whisper invents from silence.
var hallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"the end.",
}

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each recording chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithMaxSilence sets how many empty chunks end an utterance.
func WithMaxSilence(n int) EarOption {
	return func(e *Ear) { e.maxSilence = n }
}

// Ear turns speech into short text commands using a local Whisper model.
// There is no wake word: every utterance is treated as a command. The ear
// stays deaf while the mouth is talking so it doesn't hear itself.
type Ear struct {
	whisperBin     string
	modelPath      string
	tempDir        string
	log            *logger.Logger
	mouth          *Mouth // optional
	recordDuration time.Duration
	maxSilence     int

	// record captures and transcribes one chunk. Swapped in tests.
	record func(ctx context.Context, d time.Duration) string

	mu     sync.Mutex
	muted  bool
	textCh chan string
}

// NewEar creates a voice input listener.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the GGML model file
//   - mouth:      optional Mouth; the ear pauses while it speaks
func NewEar(whisperBin, modelPath string, mouth *Mouth, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".levain-stt",
		log:            log,
		mouth:          mouth,
		recordDuration: 2 * time.Second,
		maxSilence:     1,
		textCh:         make(chan string, 8),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.record = e.recordChunk

	if _, err := exec.LookPath(e.whisperBin); err != nil {
		log.Error("ear: whisper binary %q not found in PATH: %v", e.whisperBin, err)
	}
	return e
}

// C returns the channel that receives transcribed commands.
func (e *Ear) C() <-chan string {
	return e.textCh
}

// Mute temporarily disables listening.
func (e *Ear) Mute() {
	e.mu.Lock()
	e.muted = true
	e.mu.Unlock()
	e.log.Debug("ear: muted")
}

// Unmute re-enables listening.
func (e *Ear) Unmute() {
	e.mu.Lock()
	e.muted = false
	e.mu.Unlock()
	e.log.Debug("ear: unmuted")
}

func (e *Ear) deaf() bool {
	e.mu.Lock()
	muted := e.muted
	e.mu.Unlock()
	return muted || (e.mouth != nil && e.mouth.Busy())
}

// Run starts the listening loop. Blocks until ctx is cancelled.
func (e *Ear) Run(ctx context.Context) {
	e.log.Info("ear: started (chunk=%s)", e.recordDuration)
	for {
		select {
		case <-ctx.Done():
			e.log.Info("ear: stopped")
			return
		default:
		}

		if e.deaf() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		if cmd := e.listenOnce(ctx); cmd != "" {
			e.log.Info("ear: heard %q", cmd)
			select {
			case e.textCh <- cmd:
			case <-ctx.Done():
			}
		}
	}
}

// listenOnce records chunks until maxSilence empty chunks in a row follow
// some speech and returns the combined text. A first chunk that is
// silent returns "".
func (e *Ear) listenOnce(ctx context.Context) string {
	var parts []string
	silent := 0
	for ctx.Err() == nil {
		chunk := cleanTranscription(e.record(ctx, e.recordDuration))
		if chunk == "" {
			if len(parts) == 0 {
				return ""
			}
			silent++
			if silent >= e.maxSilence {
				break
			}
			continue
		}
		silent = 0
		parts = append(parts, chunk)

		// Heard ourselves mid-utterance, discard.
		if e.mouth != nil && e.mouth.Busy() {
			e.log.Debug("ear: discarding, mouth started during recording")
			return ""
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// recordChunk does one whisper recording cycle and returns the text.
func (e *Ear) recordChunk(ctx context.Context, duration time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav", callback, verbose)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		time.Sleep(2 * time.Second)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		time.Sleep(2 * time.Second)
		return ""
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()

	if ctx.Err() != nil {
		return ""
	}
	return result
}

// cleanTranscription normalizes whitespace and removes whisper artifacts
// such as "[BLANK_AUDIO]", "(silence)" and timestamp prefixes. Known
// hallucinations come back as "".
func cleanTranscription(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.TrimSpace(s)

	// Whisper timestamp prefixes like "[00:00:00.000 --> 00:00:05.000]".
	if strings.HasPrefix(s, "[") {
		if idx := strings.Index(s, "]"); idx != -1 && idx < 40 && strings.Contains(s[:idx], "-->") {
			s = s[idx+1:]
		}
	}

	s = envAnnotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if lower == h {
			return ""
		}
	}
	return s
}
