package translate

import (
	"context"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/faqhub/faqhub/backend/go-services/pkg/metrics"
)

// Instrumented records the latency of every call on the
// translation_duration_seconds histogram.
type Instrumented struct {
	next Translator
}

func NewInstrumented(next Translator) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Translate(ctx context.Context, text string, lang faq.Lang) (string, error) {
	start := time.Now()
	out, err := i.next.Translate(ctx, text, lang)
	metrics.TranslationDuration.Observe(time.Since(start).Seconds())
	return out, err
}

var _ Translator = (*Instrumented)(nil)
