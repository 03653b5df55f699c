// Package provider implements lingo.Invoker for the supported model vendors
// and the provider-selecting entry points used by the CLI and the server.
package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/lingo"
)

// Name identifies a model vendor.
type Name string

const (
	NameGemini    Name = "gemini"
	NameOpenAI    Name = "openai"
	NameAnthropic Name = "anthropic"
)

// Names lists the supported providers.
var Names = []Name{NameGemini, NameOpenAI, NameAnthropic}

// Default models per provider.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// Config holds the settings shared by all providers.
type Config struct {
	APIKey      string       // Required
	Model       string       // Provider default when empty
	BaseURL     string       // Custom endpoint (optional)
	Temperature float32      // Default: 0.3
	MaxTokens   int          // Output token limit (default: 8192)
	HTTPClient  *http.Client // Optional
}

func (c Config) temperature() float32 {
	if c.Temperature == 0 {
		return 0.3
	}
	return c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 8192
	}
	return c.MaxTokens
}

// ParseName validates a provider name. Matching is case-insensitive.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", &lingo.ConfigError{Field: "provider", Message: "unknown provider " + `"` + s + `"`}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(name Name) string {
	switch name {
	case NameOpenAI:
		return DefaultOpenAIModel
	case NameAnthropic:
		return DefaultAnthropicModel
	default:
		return DefaultGeminiModel
	}
}

// New creates the invoker for the named provider.
func New(ctx context.Context, name Name, cfg Config) (lingo.StreamInvoker, error) {
	if cfg.APIKey == "" {
		return nil, &lingo.ConfigError{Field: "apiKey", Message: "API key is required"}
	}

	switch name {
	case NameGemini:
		return NewGeminiProvider(ctx, cfg)
	case NameOpenAI:
		return NewOpenAIProvider(cfg), nil
	case NameAnthropic:
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, &lingo.ConfigError{Field: "provider", Message: "unknown provider " + `"` + string(name) + `"`}
	}
}
