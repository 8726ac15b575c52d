// Package ratelimit provides a keyed token bucket limiter for inbound requests.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pruneThreshold is the key count above which idle limiters are dropped.
const pruneThreshold = 4096

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// New allows requests per window for each key, with the whole allowance
// available as an initial burst.
func New(requests int, window time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
		idle:     window,
		now:      time.Now,
	}
}

// Allow reports whether a request for key may proceed. When it may not,
// retryAfter is the time until the next token is available.
func (krl *KeyedRateLimiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	now := krl.now()
	lim := krl.getLimiter(key, now)

	if lim.AllowN(now, 1) {
		return true, 0
	}
	missing := 1 - lim.TokensAt(now)
	wait := time.Duration(math.Ceil(missing / float64(krl.limit) * float64(time.Second)))
	return false, wait
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	if e, ok := krl.limiters[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(krl.limiters) >= pruneThreshold {
		krl.prune(now)
	}

	e := &entry{limiter: rate.NewLimiter(krl.limit, krl.burst), lastSeen: now}
	krl.limiters[key] = e
	return e.limiter
}

// prune drops keys idle for a full window; their buckets are full again, so
// forgetting them changes nothing. Caller holds mu.
func (krl *KeyedRateLimiter) prune(now time.Time) {
	for k, e := range krl.limiters {
		if now.Sub(e.lastSeen) >= krl.idle {
			delete(krl.limiters, k)
		}
	}
}
