package auth

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether a request from identity may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// TierConfig holds rate limit settings for a service tier.
type TierConfig struct {
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute when zero.
	Burst int
}

// InProcessLimiter keeps one token bucket per subject and tier in memory.
type InProcessLimiter struct {
	tiers   map[string]TierConfig
	def     TierConfig
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewInProcessLimiter creates a limiter with per-tier configuration. Tiers
// without an entry use defaultRPM. A rate of zero or less disables limiting.
func NewInProcessLimiter(tiers map[string]TierConfig, defaultRPM int) *InProcessLimiter {
	return &InProcessLimiter{
		tiers:   tiers,
		def:     TierConfig{RequestsPerMinute: defaultRPM},
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow takes one token from the caller's bucket.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	tier := tierOf(identity)

	tc, ok := l.tiers[tier]
	if !ok {
		tc = l.def
	}
	if tc.RequestsPerMinute <= 0 {
		return nil
	}

	key := identity.Subject + ":" + tier

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		burst := tc.Burst
		if burst <= 0 {
			burst = tc.RequestsPerMinute
		}
		b = rate.NewLimiter(rate.Limit(float64(tc.RequestsPerMinute)/60), burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	if !b.Allow() {
		return ErrTooManyRequests
	}
	return nil
}
