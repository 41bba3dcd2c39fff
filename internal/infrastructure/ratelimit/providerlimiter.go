package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ProviderLimiter throttles outbound calls to a third-party API. Each key
// (usually the integration ID) gets its own token bucket.
type ProviderLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewProviderLimiter(requestsPerSec int) *ProviderLimiter {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSec),
		burst:    requestsPerSec,
	}
}

// Wait blocks until key may issue another request or ctx ends.
func (p *ProviderLimiter) Wait(ctx context.Context, key string) error {
	return p.limiter(key).Wait(ctx)
}

func (p *ProviderLimiter) limiter(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(p.rps, p.burst)
		p.limiters[key] = l
	}
	return l
}
