package lingo

import "fmt"

// RateLimitMessage is the message carried by RateLimitError.
const RateLimitMessage = "Rate limit exceeded. Maximum retry attempts reached."

// ProviderError indicates a language model provider failure (auth, validation,
// network). The provider's own message is kept so it can still be classified.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	prefix := "provider error"
	if e.Provider != "" {
		prefix = e.Provider + " error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// RateLimitError is returned once every retry attempt was rate limited.
type RateLimitError struct {
	Attempts int
	Cause    error // Last provider error
}

func (e *RateLimitError) Error() string {
	return RateLimitMessage
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates invalid engine or provider configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error (%s): %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// FetchError indicates a website page could not be retrieved for label
// extraction.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
