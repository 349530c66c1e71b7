package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-line/nlcmd/core"
)

func sqlResult() core.DetectionResult {
	return core.DetectionResult{Domain: "sql", Intent: "select", Confidence: 0.9}
}

func TestCacheHitAfterPut(t *testing.T) {
	c, err := NewDetectionCache(DefaultConfig())
	require.NoError(t, err)

	_, ok := c.Get("pokaż dane z tabeli users")
	assert.False(t, ok)

	c.Put("pokaż dane z tabeli users", sqlResult())

	res, ok := c.Get("pokaż dane z tabeli users")
	require.True(t, ok)
	assert.Equal(t, "sql", res.Domain)
}

func TestCacheKeyNormalization(t *testing.T) {
	c, err := NewDetectionCache(DefaultConfig())
	require.NoError(t, err)

	c.Put("Pokaż   dane z tabeli users", sqlResult())

	_, ok := c.Get("  pokaż dane Z TABELI users ")
	assert.True(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c, err := NewDetectionCache(Config{MaxSize: 8, TTL: 10 * time.Millisecond})
	require.NoError(t, err)

	c.Put("docker ps", sqlResult())
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("docker ps")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Expirations)
}

func TestCacheEviction(t *testing.T) {
	c, err := NewDetectionCache(Config{MaxSize: 2, TTL: time.Minute})
	require.NoError(t, err)

	c.Put("a", sqlResult())
	c.Put("b", sqlResult())
	c.Put("c", sqlResult())

	assert.Equal(t, 2, c.Stats().Size)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheStats(t *testing.T) {
	c, err := NewDetectionCache(DefaultConfig())
	require.NoError(t, err)

	c.Put("x", sqlResult())
	c.Get("x")
	c.Get("y")

	s := c.Stats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 1e-9)

	c.Purge()
	assert.Zero(t, c.Stats().Hits)
	assert.Zero(t, c.Stats().Size)
}

type countingDetector struct{ calls int }

func (d *countingDetector) Detect(text string) core.DetectionResult {
	d.calls++
	return sqlResult()
}

func TestCachedDetectorSkipsInnerOnHit(t *testing.T) {
	c, err := NewDetectionCache(DefaultConfig())
	require.NoError(t, err)

	inner := &countingDetector{}
	d := NewCachedDetector(inner, c)

	d.Detect("pokaż users")
	d.Detect("pokaż users")
	d.Detect("POKAŻ USERS")

	assert.Equal(t, 1, inner.calls)
}
