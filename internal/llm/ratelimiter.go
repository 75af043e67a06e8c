package llm

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket allowing at most rpm requests per minute. One
// Limiter can be shared by providers created for different requests.
type Limiter struct {
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewLimiter returns a full bucket for rpm requests per minute.
func NewLimiter(rpm int) *Limiter {
	return &Limiter{rpm: rpm, tokens: rpm, lastFill: time.Now()}
}

// Wait blocks until a request may be sent or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(l.lastFill)

		// Refill tokens based on elapsed time.
		refill := int(elapsed.Seconds() * float64(l.rpm) / 60.0)
		if refill > 0 {
			l.tokens += refill
			if l.tokens > l.rpm {
				l.tokens = l.rpm
			}
			l.lastFill = now
		}

		if l.tokens > 0 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// RateLimitedProvider gates a Provider behind a Limiter.
type RateLimitedProvider struct {
	provider Provider
	limiter  *Limiter
}

// NewRateLimitedProvider wraps the given provider with its own limiter
// that allows at most rpm requests per minute.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	return WithLimiter(provider, NewLimiter(rpm))
}

// WithLimiter wraps provider with a shared limiter.
func WithLimiter(provider Provider, l *Limiter) Provider {
	return &RateLimitedProvider{provider: provider, limiter: l}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}
