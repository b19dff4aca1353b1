package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T, maxEntries int) (*Memory[[]float32], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemory[[]float32](maxEntries, 0)
	c.now = clock.Now
	t.Cleanup(c.Stop)
	return c, clock
}

func TestMemory_GetSet(t *testing.T) {
	c, _ := newTestCache(t, 0)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", []float32{1, 2}, time.Minute)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, got)

	c.Set("a", []float32{3}, time.Minute)
	got, _ = c.Get("a")
	assert.Equal(t, []float32{3}, got)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Sets)
	assert.Equal(t, 1, stats.Size)
}

func TestMemory_Expiry(t *testing.T) {
	c, clock := newTestCache(t, 0)

	c.Set("short", []float32{1}, time.Second)
	c.Set("long", []float32{2}, time.Hour)
	c.Set("default", []float32{3}, 0)

	clock.Advance(2 * time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len(), "expired value is dropped on read")

	clock.Advance(DefaultTTL)
	assert.Equal(t, 1, c.RemoveExpired())
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestMemory_EvictsWhenFull(t *testing.T) {
	c, clock := newTestCache(t, 3)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), []float32{float32(i)}, time.Duration(i+1)*time.Minute)
	}
	c.Set("k0", []float32{9}, time.Hour)
	assert.Equal(t, 3, c.Len(), "replacing a key does not evict")

	c.Set("k3", []float32{3}, time.Hour)
	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("k1")
	assert.False(t, ok, "value closest to expiry is evicted")
	assert.Equal(t, int64(1), c.Stats().Evictions)

	clock.Advance(3 * time.Minute)
	c.Set("k4", []float32{4}, time.Hour)
	_, ok = c.Get("k2")
	assert.False(t, ok)
	for _, key := range []string{"k0", "k3", "k4"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
}

func TestMemory_DeleteClear(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("a", nil, time.Minute)
	c.Set("b", nil, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMemory_JanitorStops(t *testing.T) {
	c := NewMemory[string](0, time.Millisecond)
	c.Set("a", "x", time.Nanosecond)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()
}
