// Package cache keeps recent detection results so repeated phrasings skip
// the cascade. Entries are LRU-evicted and expire on a TTL.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/drift-line/nlcmd/core"
)

// Config sizes the detection cache.
type Config struct {
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl"`
}

// DefaultConfig returns the stock cache settings.
func DefaultConfig() Config {
	return Config{
		MaxSize: 1024,
		TTL:     10 * time.Minute,
	}
}

type entry struct {
	result    core.DetectionResult
	expiresAt time.Time
}

// Stats counts cache effectiveness.
type Stats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Expirations int64   `json:"expirations"`
	Size        int     `json:"size"`
	HitRate     float64 `json:"hit_rate"`
}

// DetectionCache is a TTL-bounded LRU over normalized input text.
type DetectionCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, entry]
	ttl   time.Duration

	hits        int64
	misses      int64
	expirations int64
}

// NewDetectionCache creates the cache; zero config fields get defaults.
func NewDetectionCache(cfg Config) (*DetectionCache, error) {
	def := DefaultConfig()
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	c, err := lru.New[string, entry](cfg.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &DetectionCache{cache: c, ttl: cfg.TTL}, nil
}

// normalizeKey collapses case and surrounding whitespace so trivially
// different phrasings share an entry.
func normalizeKey(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Get returns a cached result for text if present and fresh.
func (c *DetectionCache) Get(text string) (core.DetectionResult, bool) {
	key := normalizeKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.cache.Get(key)
	if !ok {
		c.misses++
		return core.DetectionResult{}, false
	}
	if time.Now().After(e.expiresAt) {
		c.cache.Remove(key)
		c.expirations++
		c.misses++
		return core.DetectionResult{}, false
	}
	c.hits++
	return e.result, true
}

// Put stores a detection result for text.
func (c *DetectionCache) Put(text string, result core.DetectionResult) {
	key := normalizeKey(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, entry{result: result, expiresAt: time.Now().Add(c.ttl)})
}

// Purge drops every entry and resets the counters.
func (c *DetectionCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
	c.hits, c.misses, c.expirations = 0, 0, 0
}

// Stats returns a snapshot of the counters.
func (c *DetectionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Expirations: c.expirations,
		Size:        c.cache.Len(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// CachedDetector wraps a detector with the cache.
type CachedDetector struct {
	inner interface {
		Detect(text string) core.DetectionResult
	}
	cache *DetectionCache
}

// NewCachedDetector wraps inner with cache lookups.
func NewCachedDetector(inner interface {
	Detect(text string) core.DetectionResult
}, cache *DetectionCache) *CachedDetector {
	return &CachedDetector{inner: inner, cache: cache}
}

// Detect consults the cache before running the cascade.
func (d *CachedDetector) Detect(text string) core.DetectionResult {
	if res, ok := d.cache.Get(text); ok {
		return res
	}
	res := d.inner.Detect(text)
	d.cache.Put(text, res)
	return res
}
