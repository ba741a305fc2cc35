package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/social-scheduler/pkg/config"
	"golang.org/x/time/rate"
)

// Limiter throttles calls per key, one token bucket per key.
type Limiter interface {
	// Wait blocks until key may proceed or ctx is done.
	Wait(ctx context.Context, key string) error
}

// InMemoryLimiter keeps its buckets in process memory.
type InMemoryLimiter struct {
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewInMemoryLimiter allows requests per duration with the given burst.
// Example: NewInMemoryLimiter(10, time.Second, 5) -> 10 calls per second, 5 at once.
// requests <= 0 disables limiting.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	r := rate.Inf
	if requests > 0 && per > 0 {
		r = rate.Every(per / time.Duration(requests))
	}
	if burst < 1 {
		burst = 1
	}
	return &InMemoryLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       burst,
	}
}

// New builds the platform limiter from configuration.
func New(cfg *config.Config) Limiter {
	return NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst)
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

func (l *InMemoryLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.buckets[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.buckets[key] = limiter
	}
	return limiter
}
