package googlecloud

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/taskboard/internal/domain"
)

// Common Datastore errors for easier handling in services.
var (
	// ErrNotFound is domain.ErrNotFound so services see one error for every backend.
	ErrNotFound      = domain.ErrNotFound
	ErrAlreadyExists = errors.New("entity already exists")
)

// WrapDatastoreError converts Datastore-specific errors to domain errors.
func WrapDatastoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

// IsNotFoundError checks if an error is a not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, datastore.ErrNoSuchEntity)
}

// --- Retry Logic ---

// RetryConfig holds configuration for retry operations.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns sensible defaults for retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     2 * time.Second,
	}
}

// WithRetry executes fn with exponential backoff. Request handlers do not
// retry; startup uses it while the emulator or backend is still coming up.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	wait := cfg.InitialWait

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		// Don't wait after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
			if wait > cfg.MaxWait {
				wait = cfg.MaxWait
			}
		}
	}
	return lastErr
}
