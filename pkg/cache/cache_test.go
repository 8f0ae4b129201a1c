package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLGetSet(t *testing.T) {
	c := NewTTL[string, int](10, time.Minute)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, Stats{Hits: 1, Misses: 2, Len: 0}, c.Stats())
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[string, string](10, time.Minute)
	c.Set("short", "x", 20*time.Millisecond)
	c.Set("long", "y", time.Hour)

	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok)
	v, ok := c.Get("long")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestTTLCapacity(t *testing.T) {
	c := NewTTL[int, int](3, time.Minute)
	for i := range 5 {
		c.Set(i, i*i, 0)
	}
	assert.Equal(t, 3, c.Len())
	v, ok := c.Get(4)
	require.True(t, ok)
	assert.Equal(t, 16, v)
}

func TestTTLStartStop(t *testing.T) {
	c := NewTTL[string, int](10, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		c.Start()
		close(done)
	}()
	c.Set("k", 1, 0)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	c.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

// Port is satisfied by any map-like fake, so callers can test without TTLs.
type mapPort map[string]int

func (m mapPort) Get(k string) (int, bool)            { v, ok := m[k]; return v, ok }
func (m mapPort) Set(k string, v int, _ time.Duration) { m[k] = v }

func TestPortFake(t *testing.T) {
	var p Port[string, int] = mapPort{}
	p.Set("a", 2, 0)
	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}
