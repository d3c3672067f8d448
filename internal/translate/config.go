package translate

import (
	"strings"

	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
)

// Chain holds the translators for the two FAQ fields. Questions are plain
// text; answers may carry markup and go through Markup when the provider is
// live.
type Chain struct {
	Text   Translator
	Answer Translator
}

// FromConfig builds the translators selected by cfg.Provider: "openai" for
// the live provider with retries, "mock" for deterministic placeholders,
// anything else disables translation.
func FromConfig(cfg config.TranslationConfig) Chain {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		provider := NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
		rc := DefaultRetryConfig()
		rc.MaxRetries = cfg.MaxRetries
		retried := NewRetrying(provider, rc)
		return Chain{
			Text:   NewInstrumented(retried),
			Answer: NewInstrumented(NewMarkup(retried)),
		}
	case "mock":
		logger.Warnf("using the mock translator; translations are placeholders")
		m := NewMockTranslator()
		return Chain{Text: m, Answer: m}
	default:
		logger.Warnf("translation disabled; FAQs are stored in English only")
		return Chain{Text: Noop{}, Answer: Noop{}}
	}
}
