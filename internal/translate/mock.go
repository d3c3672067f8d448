package translate

import (
	"context"
	"fmt"
	"sync"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
)

// Call is one recorded invocation of MockTranslator.
type Call struct {
	Text string
	Lang faq.Lang
}

// MockTranslator is a deterministic Translator for tests and local runs.
// It returns "[<lang>] <text>" unless a failure is scripted for the language.
type MockTranslator struct {
	mu    sync.Mutex
	fail  map[faq.Lang]error
	calls []Call
	// Func overrides the default output when set.
	Func func(text string, lang faq.Lang) string
}

func NewMockTranslator() *MockTranslator {
	return &MockTranslator{fail: map[faq.Lang]error{}}
}

// FailFor makes every call targeting lang return err. A nil err clears it.
func (m *MockTranslator) FailFor(lang faq.Lang, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, lang)
		return
	}
	m.fail[lang] = err
}

func (m *MockTranslator) Translate(ctx context.Context, text string, lang faq.Lang) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Text: text, Lang: lang})
	err := m.fail[lang]
	fn := m.Func
	m.mu.Unlock()

	if err != nil {
		return "", err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if fn != nil {
		return fn(text, lang), nil
	}
	return fmt.Sprintf("[%s] %s", lang, text), nil
}

// Calls returns a copy of the recorded calls.
func (m *MockTranslator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears the recorded calls.
func (m *MockTranslator) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

var _ Translator = (*MockTranslator)(nil)
