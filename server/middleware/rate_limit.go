package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ChatRate is the sustained chat-turn rate allowed per user. A turn can
	// take several seconds of model time, so the limiter only guards against
	// runaway clients, not normal typing speed.
	ChatRate rate.Limit = 10
	// ChatBurst is how many turns a user may fire back to back before the
	// sustained rate applies.
	ChatBurst = 20
	// idleEvictAfter is how long an untouched user entry survives. Entries
	// are swept when a new user shows up, so the map stays bounded by the
	// recently active population.
	idleEvictAfter = 10 * time.Minute
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles chat turns per user id.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[int32]*userLimiter
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limits: make(map[int32]*userLimiter),
	}
}

// getLimiter gets or creates the limiter for the user, sweeping idle entries
// whenever a new user is added.
func (rl *RateLimiter) getLimiter(userID int32) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if entry, ok := rl.limits[userID]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	for id, entry := range rl.limits {
		if now.Sub(entry.lastSeen) > idleEvictAfter {
			delete(rl.limits, id)
		}
	}

	entry := &userLimiter{
		limiter:  rate.NewLimiter(ChatRate, ChatBurst),
		lastSeen: now,
	}
	rl.limits[userID] = entry
	return entry.limiter
}

// Allow reports whether the user may run a chat turn right now.
func (rl *RateLimiter) Allow(userID int32) bool {
	return rl.getLimiter(userID).Allow()
}

// Wait blocks until the user may run a chat turn.
// Returns error if the context is cancelled or rate limit exceeded.
func (rl *RateLimiter) Wait(ctx context.Context, userID int32) error {
	return rl.getLimiter(userID).Wait(ctx)
}
