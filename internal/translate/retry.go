package translate

import (
	"context"
	"errors"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // retry attempts after the first call
	BaseDelay  time.Duration // delay before the first retry, doubled each time
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// IsRetryable reports whether err is a transient provider failure.
// Context cancellation and deadline errors are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// Retrying wraps a Translator with exponential backoff for retryable errors.
// The caller's context bounds the total time spent.
type Retrying struct {
	next Translator
	cfg  RetryConfig
}

func NewRetrying(next Translator, cfg RetryConfig) *Retrying {
	return &Retrying{next: next, cfg: cfg}
}

func (r *Retrying) Translate(ctx context.Context, text string, lang faq.Lang) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := r.next.Translate(ctx, text, lang)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
		if attempt < r.cfg.MaxRetries {
			delay := r.cfg.BaseDelay * time.Duration(1<<attempt)
			if r.cfg.MaxDelay > 0 && delay > r.cfg.MaxDelay {
				delay = r.cfg.MaxDelay
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return "", lastErr
}

var _ Translator = (*Retrying)(nil)
