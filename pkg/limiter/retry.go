// Package limiter protects the LLM fallback path: retry with exponential
// backoff, a per-model circuit breaker, and a per-model rate limiter.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls backoff behaviour.
type RetryConfig struct {
	MaxRetries    int           `json:"max_retries"`
	BaseDelay     time.Duration `json:"base_delay"`
	MaxDelay      time.Duration `json:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor"`
	Jitter        bool          `json:"jitter"`
}

// DefaultRetryConfig returns the stock backoff settings.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// TransientError marks an error worth retrying. Transport-level failures
// from the LLM client are wrapped in this before reaching the retrier.
type TransientError struct {
	StatusCode int
	Message    string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure (status %d): %s", e.StatusCode, e.Message)
}

// NewTransientError wraps a retryable transport failure.
func NewTransientError(statusCode int, message string) *TransientError {
	return &TransientError{StatusCode: statusCode, Message: message}
}

// IsRetryableStatus reports whether an HTTP status code is worth retrying.
func IsRetryableStatus(statusCode int) bool {
	switch statusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// Retrier executes functions with exponential backoff.
type Retrier struct {
	config *RetryConfig
}

// NewRetrier creates a retrier; nil config gets defaults.
func NewRetrier(config *RetryConfig) *Retrier {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &Retrier{config: config}
}

// Do runs fn until it succeeds, the error is not transient, or the retry
// budget is exhausted. Context cancellation aborts the wait.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.config.MaxRetries {
			break
		}
		if !isTransient(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delay(attempt)):
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *TransientError
	return errors.As(err, &te)
}

func (r *Retrier) delay(attempt int) time.Duration {
	d := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt))
	if d > float64(r.config.MaxDelay) {
		d = float64(r.config.MaxDelay)
	}
	if r.config.Jitter {
		d *= 1 + (rand.Float64()*0.5 - 0.25)
	}
	return time.Duration(d)
}
