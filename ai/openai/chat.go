package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/matchmaker/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxParseAttempts bounds re-generation when a model answers with malformed JSON.
const maxParseAttempts = 3

// chatClient wraps a langchaingo model with the request shapes used by the
// redactor, composer and safety scorer.
type chatClient struct {
	model  llms.Model
	logger *slog.Logger
}

// newChatModel creates the OpenAI-compatible chat model for config.
func newChatModel(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
}

func messages(system, user string) []llms.MessageContent {
	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}
}

// generateText returns the first choice of a chat completion.
func (c *chatClient) generateText(ctx context.Context, system, user string, opts ...llms.CallOption) (string, error) {
	response, err := c.model.GenerateContent(ctx, messages(system, user), opts...)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}

// generateJSON asks for a JSON object and decodes it into out.
// Malformed output is re-requested up to maxParseAttempts times.
func (c *chatClient) generateJSON(ctx context.Context, system, user string, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		text, err := c.generateText(ctx, system, user, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			return err
		}

		cleaned := cleanJSON(text)
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastErr = err
			c.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", cleaned,
				"err", err)
			continue
		}
		return nil
	}
	c.logger.Error("failed to parse model response after retries", "err", lastErr)
	return fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
}
