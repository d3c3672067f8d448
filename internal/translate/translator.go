// Package translate provides the translation provider clients used to
// populate FAQ translations.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
)

// Translator turns source text into the target language. Implementations
// must be safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, text string, lang faq.Lang) (string, error)
}

// ErrUnavailable is returned by Noop and whenever no provider is configured.
var ErrUnavailable = errors.New("translation provider not configured")

// ProviderError is a failed provider call. Retryable marks transient
// conditions (rate limits, 5xx, timeouts).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Noop never translates. With it every translated field stays empty and
// readers see canonical text.
type Noop struct{}

func (Noop) Translate(context.Context, string, faq.Lang) (string, error) {
	return "", ErrUnavailable
}

var _ Translator = Noop{}
