package provider

import (
	"context"

	"github.com/apex/log"
)

// verifier is implemented by providers with a low-cost credential probe.
type verifier interface {
	verify(ctx context.Context) error
}

// VerifyAPIKey reports whether apiKey is accepted by the named provider. It
// never fails: an empty key, an unknown provider or any probe error counts
// as invalid.
func VerifyAPIKey(ctx context.Context, name Name, apiKey string) bool {
	return Verify(ctx, name, Config{APIKey: apiKey})
}

// Verify is VerifyAPIKey with full provider configuration.
func Verify(ctx context.Context, name Name, cfg Config) bool {
	logger := log.WithField("provider", name)

	if cfg.APIKey == "" {
		return false
	}

	inv, err := New(ctx, name, cfg)
	if err != nil {
		logger.WithError(err).Debug("key check setup failed")
		return false
	}

	v, ok := inv.(verifier)
	if !ok {
		return false
	}

	if err := v.verify(ctx); err != nil {
		logger.WithError(err).Debug("key rejected")
		return false
	}
	return true
}
