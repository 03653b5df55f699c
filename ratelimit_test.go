package lingo

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_TryAcquire(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60, // 1 per second
		BurstSize:         3,
	})

	// Should be able to acquire burst size immediately
	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	// Fourth should fail
	if limiter.TryAcquire() {
		t.Error("Expected fourth acquire to fail")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         1,
	})

	// Drain the bucket
	limiter.TryAcquire()

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("Wait failed: %v", err)
	}

	// Should have waited ~100ms
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1, // Very slow
		BurstSize:         1,
	})

	limiter.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Expected error when context cancelled")
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         10,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if acquired != 10 {
		t.Errorf("Expected 10 acquired, got %d", acquired)
	}
}

func TestRateLimitedInvoker(t *testing.T) {
	inner := &failingInvoker{text: "ok"}

	invoker := NewRateLimitedInvoker(inner, RateLimitConfig{
		RequestsPerMinute: 600,
		BurstSize:         2,
	})

	ctx := context.Background()

	// First two should succeed immediately
	for i := 0; i < 2; i++ {
		if _, err := invoker.Invoke(ctx, Request{Prompt: "a"}); err != nil {
			t.Errorf("Invoke %d failed: %v", i, err)
		}
	}

	// Third should wait for a token
	start := time.Now()
	if _, err := invoker.Invoke(ctx, Request{Prompt: "c"}); err != nil {
		t.Errorf("Third invoke failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Expected rate limit wait, but returned in %v", elapsed)
	}

	if inner.callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", inner.callCount)
	}
}

func TestRateLimitedInvoker_ContextCancelled(t *testing.T) {
	inner := &failingInvoker{text: "ok"}

	invoker := NewRateLimitedInvoker(inner, RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	invoker.Invoke(context.Background(), Request{Prompt: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := invoker.Invoke(ctx, Request{Prompt: "b"}); err == nil {
		t.Error("Expected error when context cancelled")
	}

	if inner.callCount != 1 {
		t.Errorf("Cancelled wait must not reach the provider, got %d calls", inner.callCount)
	}
}

func TestRateLimitedInvoker_StreamUnsupported(t *testing.T) {
	invoker := NewRateLimitedInvoker(&failingInvoker{}, RateLimitConfig{})

	var gotErr error
	for _, err := range invoker.Stream(context.Background(), Request{Prompt: "x"}) {
		gotErr = err
	}

	if gotErr == nil {
		t.Error("Expected error for non-streaming invoker")
	}
}
