package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/faqhub/faqhub/backend/go-services/internal/faq"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // default: gpt-4o-mini
	Temperature float32 // default: 0.2
	BaseURL     string  // optional, for compatible gateways
}

// OpenAIProvider implements Translator with chat completions.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

func (p *OpenAIProvider) Translate(ctx context.Context, text string, lang faq.Lang) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(lang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &ProviderError{Message: "OpenAI API call failed", Cause: err, Retryable: isRetryableError(err)}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Message: "no response from OpenAI", Retryable: true}
	}
	return parseTranslation(resp.Choices[0].Message.Content)
}

func systemPrompt(lang faq.Lang) string {
	return fmt.Sprintf(`# Role
You are a professional translator for a product help center.

# Task
Translate the user's text from English into %s (%s).

# Rules
- Keep the meaning exact; rephrase so it reads naturally to a native speaker.
- Do NOT translate product names, URLs, email addresses or content inside backticks.
- Preserve leading/trailing whitespace and line breaks.

# Format
Return a JSON object with a single key "translation" holding the translated string.
Do NOT wrap it in Markdown code blocks.`, lang.Name(), lang)
}

func parseTranslation(content string) (string, error) {
	var obj struct {
		Translation *string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(content), &obj); err != nil || obj.Translation == nil {
		return "", &ProviderError{Message: "invalid response format from OpenAI", Retryable: false}
	}
	if strings.TrimSpace(*obj.Translation) == "" {
		return "", &ProviderError{Message: "empty translation from OpenAI", Retryable: false}
	}
	return *obj.Translation, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"rate limit", "timeout", "connection refused", "temporary", "503", "502", "429"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ Translator = (*OpenAIProvider)(nil)
