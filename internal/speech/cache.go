package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// AudioCache is an in-memory cache of synthesized audio keyed by
// sha256(voice + ":" + text), so switching voices never replays stale
// audio. Safe for concurrent use.
type AudioCache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	order      []string // insertion order, oldest first
	maxEntries int
	voice      string
	hits       int64
	misses     int64
}

// NewAudioCache creates a cache holding at most maxEntries clips. Zero
// means unbounded.
func NewAudioCache(voice string, maxEntries int) *AudioCache {
	return &AudioCache{
		entries:    make(map[string][]byte),
		maxEntries: maxEntries,
		voice:      voice,
	}
}

// Get returns cached audio for the given text.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[c.hashKey(text)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Put stores audio for text, evicting the oldest clip when full.
func (c *AudioCache) Put(text string, audio []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.hashKey(text)
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = audio

	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// Len returns the number of cached clips.
func (c *AudioCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *AudioCache) hashKey(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}
