package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(capacity int, ttl time.Duration) (*LRU[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)}
	c := New[string](capacity, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRU_GetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "1")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", got)

	c.Set("a", "2")
	got, _ = c.Get("a")
	assert.Equal(t, "2", got)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_Expiration(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)

	c.Set("a", "1")
	clock.advance(30 * time.Second)
	c.Set("b", "2")

	clock.advance(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	clock.advance(time.Minute)
	c.CleanExpired()
	assert.Zero(t, c.Len())
}

func TestLRU_StartCleanupEvictsExpired(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartCleanup(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
