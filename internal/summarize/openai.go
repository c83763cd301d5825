package summarize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
)

// OpenAISummarizer is the alternative to Bedrock for deployments that hold an
// OpenAI API key instead of AWS model access. The key is read from the
// standard OPENAI_API_KEY variable by the client itself.
type OpenAISummarizer struct {
	client openai.Client
	model  string
}

var _ Summarizer = (*OpenAISummarizer)(nil)

func NewOpenAISummarizer(model string) *OpenAISummarizer {
	return &OpenAISummarizer{
		client: openai.NewClient(),
		model:  model,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if len(req.Content) == 0 {
		return "", fmt.Errorf("empty report content: %w", ErrContentRejected)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(buildPrompt(req)),
	}

	res, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       s.model,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxSummaryTokens),
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "model", s.model, "error", err)
		return "", fmt.Errorf("openai summarization failed: %w: %w", ErrModelUnavailable, err)
	}

	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty openai response: %w", ErrModelUnavailable)
	}

	return res.Choices[0].Message.Content, nil
}
