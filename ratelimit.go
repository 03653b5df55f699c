package lingo

import (
	"context"
	"iter"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing model requests using a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: 1)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	return r.limiter.Tokens()
}

// RateLimitedInvoker wraps an Invoker with request pacing.
type RateLimitedInvoker struct {
	invoker Invoker
	limiter *RateLimiter
}

// NewRateLimitedInvoker creates a new rate-limited invoker.
func NewRateLimitedInvoker(invoker Invoker, cfg RateLimitConfig) *RateLimitedInvoker {
	return &RateLimitedInvoker{
		invoker: invoker,
		limiter: NewRateLimiter(cfg),
	}
}

// Invoke implements Invoker with rate limiting.
func (p *RateLimitedInvoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.invoker.Invoke(ctx, req)
}

// Capabilities returns the wrapped invoker's capabilities.
func (p *RateLimitedInvoker) Capabilities() Capabilities {
	return p.invoker.Capabilities()
}

// Stream paces the request, then streams from the wrapped invoker. It yields
// a single error when the wrapped invoker cannot stream.
func (p *RateLimitedInvoker) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s, ok := p.invoker.(StreamInvoker)
		if !ok {
			yield("", &ConfigError{Field: "provider", Message: "streaming not supported"})
			return
		}
		if err := p.limiter.Wait(ctx); err != nil {
			yield("", err)
			return
		}
		for chunk, err := range s.Stream(ctx, req) {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// Limiter returns the underlying rate limiter for inspection.
func (p *RateLimitedInvoker) Limiter() *RateLimiter {
	return p.limiter
}

var _ StreamInvoker = (*RateLimitedInvoker)(nil)
