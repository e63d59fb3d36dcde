package ratelimiter

import (
	"time"

	"golang.org/x/time/rate"

	"gitlab.com/gitlab-org/serve-static/internal/lru"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

const (
	// DefaultSourceIPBurstSize is the maximum burst allowed per source IP.
	// E.g. The first 100 requests within 1s will succeed, but the 101st will fail.
	DefaultSourceIPBurstSize = 100

	defaultSourceIPItems              = 5000
	defaultSourceIPExpirationInterval = time.Minute
)

// Option function to configure a RateLimiter
type Option func(*RateLimiter)

// RateLimiter keeps one token bucket per source IP in an LRU cache
type RateLimiter struct {
	now                    func() time.Time
	sourceIPLimitPerSecond float64
	sourceIPBurstSize      int
	sourceIPCache          *lru.Cache
}

// New creates a RateLimiter allowing limitPerSecond requests per source IP
func New(limitPerSecond float64, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		now:                    time.Now,
		sourceIPLimitPerSecond: limitPerSecond,
		sourceIPBurstSize:      DefaultSourceIPBurstSize,
		sourceIPCache: lru.New(
			"source_ip",
			defaultSourceIPItems,
			defaultSourceIPExpirationInterval,
			metrics.RateLimitCachedEntries,
			metrics.RateLimitCacheRequests,
		),
	}

	for _, opt := range opts {
		opt(rl)
	}

	return rl
}

// WithNow replaces the RateLimiter now function
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithSourceIPBurstSize configures burst per source IP for the RateLimiter
func WithSourceIPBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPBurstSize = burst
	}
}

func (rl *RateLimiter) getSourceIPLimiter(sourceIP string) *rate.Limiter {
	limiter := rl.sourceIPCache.FindOrCreate(sourceIP, func() interface{} {
		return rate.NewLimiter(rate.Limit(rl.sourceIPLimitPerSecond), rl.sourceIPBurstSize)
	})

	return limiter.(*rate.Limiter)
}

// SourceIPAllowed takes a token from the bucket of sourceIP
func (rl *RateLimiter) SourceIPAllowed(sourceIP string) bool {
	return rl.getSourceIPLimiter(sourceIP).AllowN(rl.now(), 1)
}
