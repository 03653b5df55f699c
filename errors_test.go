package lingo

import (
	"errors"
	"testing"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("429 Too Many Requests")
	err := &ProviderError{Provider: "openai", Message: "chat completion failed", Cause: cause}

	if err.Error() != "openai error: chat completion failed: 429 Too Many Requests" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	// Without provider or cause
	err2 := &ProviderError{Message: "empty response"}
	if err2.Error() != "provider error: empty response" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	cause := errors.New("Resource exhausted")
	err := &RateLimitError{Attempts: 3, Cause: cause}

	if err.Error() != "Rate limit exceeded. Maximum retry attempts reached." {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the last provider error")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "provider", Message: "unknown provider \"foo\""}

	if err.Error() != `config error (provider): unknown provider "foo"` {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	err2 := &ConfigError{Message: "api key required"}
	if err2.Error() != "config error: api key required" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestFetchError(t *testing.T) {
	err := &FetchError{URL: "https://example.com", StatusCode: 404}

	if err.Error() != "fetch https://example.com: unexpected status 404" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	cause := errors.New("connection refused")
	err2 := &FetchError{URL: "https://example.com", Cause: cause}
	if !errors.Is(err2, cause) {
		t.Error("errors.Is should find the cause")
	}
}
