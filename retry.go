package lingo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Total attempts, including the first
	BaseDelay   time.Duration // Delay before the second attempt; doubles after
}

// DefaultRetryConfig returns the default retry behavior: 3 attempts, 2s base
// delay.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// rateLimitIndicators are matched case-sensitively against error messages.
var rateLimitIndicators = []string{
	"429",
	"Resource exhausted",
	"quota",
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// Backoff returns the delay after the given zero-based attempt.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	return c.BaseDelay * time.Duration(1<<attempt)
}

// WithRetry executes fn, retrying rate-limited failures with exponential
// backoff. Any other error is returned immediately. When the last attempt is
// rate limited a *RateLimitError is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	return withRetry(ctx, cfg, log.Log, fn)
}

func withRetry[T any](ctx context.Context, cfg RetryConfig, logger log.Interface, fn RetryFunc[T]) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRateLimited(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt == attempts-1 {
			break
		}

		delay := cfg.Backoff(attempt)
		logger.WithFields(log.Fields{
			"attempt": attempt + 1,
			"delay":   delay.String(),
		}).Warn("rate limited, backing off")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, &RateLimitError{Attempts: attempts, Cause: lastErr}
}

// IsRateLimited reports whether err looks like transient provider throttling.
// A *RateLimitError is final and is not considered retryable.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		return false
	}

	msg := err.Error()
	for _, indicator := range rateLimitIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// RetryingInvoker wraps an Invoker with rate-limit retry logic.
type RetryingInvoker struct {
	invoker Invoker
	config  RetryConfig
	logger  log.Interface
}

// NewRetryingInvoker creates a new invoker with retry logic.
func NewRetryingInvoker(invoker Invoker, cfg RetryConfig) *RetryingInvoker {
	return &RetryingInvoker{
		invoker: invoker,
		config:  cfg,
		logger:  log.Log,
	}
}

// Invoke implements Invoker with retry logic.
func (r *RetryingInvoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	return withRetry(ctx, r.config, r.logger, func() (*Response, error) {
		return r.invoker.Invoke(ctx, req)
	})
}

// Capabilities returns the wrapped invoker's capabilities.
func (r *RetryingInvoker) Capabilities() Capabilities {
	return r.invoker.Capabilities()
}

var _ Invoker = (*RetryingInvoker)(nil)
