package speech

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/logger"
)

// Compile-time interface check.
var _ domain.SpeechProvider = (*Mouth)(nil)

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithChunkSize sets the approximate max character count per TTS request.
// Longer text is split at sentence boundaries and synthesized in parallel.
func WithChunkSize(n int) MouthOption {
	return func(m *Mouth) {
		m.chunkSize = n
	}
}

// WithCacheSize caps the number of cached clips.
func WithCacheSize(n int) MouthOption {
	return func(m *Mouth) {
		m.cacheSize = n
	}
}

// Mouth serializes all speech output through a single pipeline:
// queue -> chunk -> synthesize (parallel) -> play (sequential). Only one
// thing speaks at a time and higher priority items go first.
type Mouth struct {
	tts    Synthesizer
	player AudioSink
	log    *logger.Logger
	cache  *AudioCache

	mu          sync.Mutex
	queue       []utterance
	notify      chan struct{}
	speaking    bool
	interrupted bool
	chunkSize   int
	cacheSize   int
}

// NewMouth creates a speech dispatcher. voice only feeds the cache key.
func NewMouth(tts Synthesizer, player AudioSink, voice string, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		tts:       tts,
		player:    player,
		log:       log,
		notify:    make(chan struct{}, 1),
		chunkSize: 200,
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = NewAudioCache(voice, m.cacheSize)
	return m
}

// Speak queues text at normal priority. It never blocks on audio.
func (m *Mouth) Speak(ctx context.Context, text string) error {
	m.Say(text, PriorityNormal)
	return nil
}

// Say queues text at the given priority. Non-blocking. Queuing anything
// at PriorityNormal or above drops stale low-priority items.
func (m *Mouth) Say(text string, priority Priority) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	if priority >= PriorityNormal {
		m.flushLowLocked()
	}
	m.queue = append(m.queue, utterance{text: text, priority: priority, queued: time.Now()})
	qLen := len(m.queue)
	m.mu.Unlock()

	m.log.Debug("mouth: queued (priority=%s, queue_len=%d): %s", priority, qLen, truncate(text, 60))

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Mouth) flushLowLocked() {
	n := 0
	for _, item := range m.queue {
		if item.priority > PriorityLow {
			m.queue[n] = item
			n++
		}
	}
	if dropped := len(m.queue) - n; dropped > 0 {
		m.log.Debug("mouth: flushed %d low-priority items", dropped)
	}
	m.queue = m.queue[:n]
}

// Busy reports whether the mouth is speaking or has queued items.
func (m *Mouth) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking || len(m.queue) > 0
}

// Interrupt stops playback, clears the queue and aborts any multi-chunk
// utterance in progress.
func (m *Mouth) Interrupt() {
	m.mu.Lock()
	m.queue = m.queue[:0]
	m.interrupted = true
	m.mu.Unlock()

	m.player.Stop()
	m.log.Debug("mouth: interrupted")
}

// Start begins the speech processing goroutine. Non-blocking.
func (m *Mouth) Start(ctx context.Context) {
	go m.processLoop(ctx)
	m.log.Info("mouth started")
}

func (m *Mouth) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.log.Info("mouth stopped")
			return
		case <-m.notify:
			m.drain(ctx)
		}
	}
}

// drain processes all queued items, highest priority first.
func (m *Mouth) drain(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.Lock()
		m.interrupted = false
		item, ok := m.dequeueLocked()
		m.speaking = ok
		m.mu.Unlock()
		if !ok {
			return
		}

		m.process(ctx, item)

		m.mu.Lock()
		m.speaking = false
		m.mu.Unlock()
	}
}

func (m *Mouth) dequeueLocked() (utterance, bool) {
	if len(m.queue) == 0 {
		return utterance{}, false
	}
	best := 0
	for i, item := range m.queue {
		if item.priority > m.queue[best].priority {
			best = i
		}
	}
	item := m.queue[best]
	m.queue = append(m.queue[:best], m.queue[best+1:]...)
	return item, true
}

// process synthesizes every chunk in parallel and plays them in order.
func (m *Mouth) process(ctx context.Context, u utterance) {
	m.log.Debug("mouth: speaking (priority=%s, waited=%s): %s",
		u.priority, time.Since(u.queued).Round(time.Millisecond), truncate(u.text, 60))

	chunks := m.splitChunks(u.text)
	audio := make([][]byte, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := m.synthesizeWithCache(ctx, chunk)
			if err != nil {
				m.log.Error("mouth: chunk %d synthesis failed: %v", i, err)
				return
			}
			audio[i] = data
		}()
	}
	wg.Wait()

	for i, data := range audio {
		if data == nil {
			continue
		}
		m.mu.Lock()
		abort := m.interrupted
		m.mu.Unlock()
		if abort || ctx.Err() != nil {
			m.log.Debug("mouth: aborting playback")
			return
		}
		if err := m.player.Play(data); err != nil {
			m.log.Error("mouth: chunk %d playback failed: %v", i, err)
		}
	}
}

func (m *Mouth) synthesizeWithCache(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := m.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := m.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	m.cache.Put(text, audio)
	return audio, nil
}

// Cache returns the audio cache, for stats.
func (m *Mouth) Cache() *AudioCache { return m.cache }

// splitChunks breaks text into sentence-boundary chunks of about
// m.chunkSize characters.
func (m *Mouth) splitChunks(text string) []string {
	if m.chunkSize <= 0 || len(text) <= m.chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > m.chunkSize {
			if c := strings.TrimSpace(current.String()); c != "" {
				chunks = append(chunks, c)
			}
			current.Reset()
		}
		current.WriteString(s)
	}
	if c := strings.TrimSpace(current.String()); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitSentences splits text at . ! ? keeping the punctuation and any
// trailing whitespace with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
