package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/matchmaker/ai"
	"github.com/tmc/langchaingo/llms"
)

// MaxIntroSentences caps the length of composed text.
const MaxIntroSentences = 3

// Composer implements ai.Composer using an OpenAI-compatible chat API.
type Composer struct {
	chat   *chatClient
	prompt string
}

func newComposer(model llms.Model) *Composer {
	return &Composer{
		chat: &chatClient{
			model:  model,
			logger: slog.Default().With("component", "openai-composer"),
		},
		prompt: buildComposePrompt(MaxIntroSentences),
	}
}

// NewComposer creates a new composer using the provided configuration.
//
// Returns ai.Composer interface to enforce abstraction.
func NewComposer(config *ai.Config) (ai.Composer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newComposer(model), nil
}

// Compose generates text for prompt. Output is trimmed to MaxIntroSentences.
func (c *Composer) Compose(ctx context.Context, prompt string, contextDocs []string) (string, error) {
	text, err := c.chat.generateText(ctx, c.prompt, buildComposeRequest(prompt, contextDocs),
		llms.WithTemperature(0.7), llms.WithMaxTokens(200))
	if err != nil {
		return "", err
	}

	text = strings.Trim(strings.TrimSpace(text), `"`)
	text = ai.LimitSentences(normalizeInput(text), MaxIntroSentences)
	if text == "" {
		return "", ai.ErrEmptyResponse
	}
	return text, nil
}
