package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.SetWithTTL("k", "v", -time.Second)
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestDelete(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("k", "v")
	c.Delete("k")
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestMaxItemsEvictsClosestToExpiry(t *testing.T) {
	evicted := map[string]bool{}
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, _ any) { evicted[key] = true },
	})
	defer c.Close()

	c.SetWithTTL("soon", 1, time.Second)
	c.SetWithTTL("late", 2, time.Hour)
	c.Set("third", 3)

	require.True(t, evicted["soon"])
	_, ok := c.Get("late")
	require.True(t, ok)
	_, ok = c.Get("third")
	require.True(t, ok)
}

func TestOverwriteExistingKeyDoesNotEvict(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute, MaxItems: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 10, got)
	_, ok = c.Get("b")
	require.True(t, ok)
}
