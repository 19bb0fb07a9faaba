package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter()

	allowed := 0
	for i := 0; i < ChatBurst+10; i++ {
		if rl.Allow(1) {
			allowed++
		}
	}
	// Everything past the burst is rejected within the same instant.
	require.GreaterOrEqual(t, allowed, ChatBurst)
	require.Less(t, allowed, ChatBurst+10)
}

func TestRateLimiterUsersAreIndependent(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < ChatBurst+10; i++ {
		rl.Allow(1)
	}
	require.True(t, rl.Allow(2))
}

func TestRateLimiterEvictsIdleUsers(t *testing.T) {
	rl := NewRateLimiter()

	// Drain user 1's burst, then backdate the entry past the idle window.
	for i := 0; i < ChatBurst+10; i++ {
		rl.Allow(1)
	}
	rl.mu.Lock()
	rl.limits[1].lastSeen = time.Now().Add(-idleEvictAfter - time.Minute)
	rl.mu.Unlock()

	// A new user arriving sweeps the idle entry.
	require.True(t, rl.Allow(2))
	rl.mu.Lock()
	_, stillThere := rl.limits[1]
	rl.mu.Unlock()
	require.False(t, stillThere)

	// The evicted user comes back with a fresh burst, not a drained one.
	require.True(t, rl.Allow(1))
}

func TestRateLimiterActiveUserIsNotEvicted(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow(1)
	rl.Allow(2)

	rl.mu.Lock()
	_, ok1 := rl.limits[1]
	_, ok2 := rl.limits[2]
	rl.mu.Unlock()
	require.True(t, ok1)
	require.True(t, ok2)
}
