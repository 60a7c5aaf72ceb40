package signal

import (
	"sync"

	"golang.org/x/time/rate"
)

const pruneThreshold = 1024

// RoomRateLimiter is a token bucket per key.
type RoomRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRoomRateLimiter(perSecond float64, burst int) *RoomRateLimiter {
	return &RoomRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RoomRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= pruneThreshold {
			rl.prune()
		}
		lim = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = lim
	}
	return lim.Allow()
}

func (rl *RoomRateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// prune drops buckets that have refilled completely; they behave exactly like
// a fresh limiter.
func (rl *RoomRateLimiter) prune() {
	for k, lim := range rl.limiters {
		if lim.Tokens() >= float64(rl.burst) {
			delete(rl.limiters, k)
		}
	}
}
