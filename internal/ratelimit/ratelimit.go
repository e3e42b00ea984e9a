// Package ratelimit provides a keyed rate limiter using the token bucket
// algorithm. Keys are client addresses; each key gets an independent bucket.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter manages per-key rate limiting. Stale buckets are evicted
// periodically so the map does not grow without bound.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int

	done     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// evictAfter is how long a key can go unused before its bucket is dropped.
const evictAfter = 10 * time.Minute

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedLimiter {
	kl := &KeyedLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go kl.cleanup()

	return kl
}

// Allow reports whether a request for the given key should be allowed.
// Returns immediately without blocking.
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	e, exists := kl.limiters[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(kl.limit, kl.burst)}
		kl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	kl.mu.Unlock()

	return e.limiter.Allow()
}

// Stop shuts down the cleanup goroutine.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() {
		close(kl.done)
	})
}

func (kl *KeyedLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-kl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-evictAfter)
			kl.mu.Lock()
			for key, e := range kl.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(kl.limiters, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}
