package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/matchmaker/ai"
	"github.com/tmc/langchaingo/llms"
)

// Redactor implements ai.Redactor using an OpenAI-compatible chat API.
type Redactor struct {
	chat   *chatClient
	prompt string
}

// redaction is the JSON shape the model is asked to return.
type redaction struct {
	RedactedText string   `json:"redacted_text"`
	PIIRemoved   []string `json:"pii_removed"`
}

func newRedactor(model llms.Model) *Redactor {
	return &Redactor{
		chat: &chatClient{
			model:  model,
			logger: slog.Default().With("component", "openai-redactor"),
		},
		prompt: buildRedactionPrompt(),
	}
}

// NewRedactor creates a new redactor using the provided configuration.
//
// Returns ai.Redactor interface to enforce abstraction.
func NewRedactor(config *ai.Config) (ai.Redactor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newRedactor(model), nil
}

// Redact removes PII from text. An empty redacted text is malformed: the
// caller must not fall back to the original.
func (r *Redactor) Redact(ctx context.Context, text string) (*ai.Redaction, error) {
	var result redaction
	if err := r.chat.generateJSON(ctx, r.prompt, normalizeInput(text), &result); err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(result.RedactedText)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty redacted_text", ai.ErrMalformedResponse)
	}

	removed := make([]string, 0, len(result.PIIRemoved))
	seen := make(map[string]struct{}, len(result.PIIRemoved))
	for _, class := range result.PIIRemoved {
		class = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(class)), " ", "_")
		if _, dup := seen[class]; dup || class == "" {
			continue
		}
		seen[class] = struct{}{}
		removed = append(removed, class)
	}

	r.chat.logger.Debug("redacted text", "input_length", len(text), "pii_classes", len(removed))
	return &ai.Redaction{Text: cleaned, PIIRemoved: removed}, nil
}
