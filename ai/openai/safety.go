package openai

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/poiesic/matchmaker/ai"
	"github.com/tmc/langchaingo/llms"
)

// SafetyScorer implements ai.SafetyScorer using an OpenAI-compatible chat API.
type SafetyScorer struct {
	chat *chatClient
}

type safetyVerdict struct {
	Toxicity *float64 `json:"toxicity"`
}

func newSafetyScorer(model llms.Model) *SafetyScorer {
	return &SafetyScorer{
		chat: &chatClient{
			model:  model,
			logger: slog.Default().With("component", "openai-safety"),
		},
	}
}

// NewSafetyScorer creates a new safety scorer using the provided configuration.
//
// Returns ai.SafetyScorer interface to enforce abstraction.
func NewSafetyScorer(config *ai.Config) (ai.SafetyScorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	model, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newSafetyScorer(model), nil
}

// SafetyScore rates text for toxicity, clamped to [0, 1].
func (s *SafetyScorer) SafetyScore(ctx context.Context, text string) (float64, error) {
	var verdict safetyVerdict
	if err := s.chat.generateJSON(ctx, safetyPromptTemplate, text, &verdict); err != nil {
		return 0, err
	}
	if verdict.Toxicity == nil || math.IsNaN(*verdict.Toxicity) {
		return 0, fmt.Errorf("%w: missing toxicity", ai.ErrMalformedResponse)
	}
	return math.Max(0, math.Min(1, *verdict.Toxicity)), nil
}
