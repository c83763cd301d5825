package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
)

// anthropicVersion is the messages-API revision Bedrock expects for Anthropic
// models.
const anthropicVersion = "bedrock-2023-05-31"

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	System           string             `json:"system,omitempty"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// BedrockSummarizer invokes an Anthropic model hosted on Amazon Bedrock.
type BedrockSummarizer struct {
	client  *bedrockruntime.Client
	modelID string
}

var _ Summarizer = (*BedrockSummarizer)(nil)

func NewBedrockSummarizer(cfg aws.Config, modelID string) *BedrockSummarizer {
	return &BedrockSummarizer{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}
}

func (s *BedrockSummarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if len(req.Content) == 0 {
		return "", fmt.Errorf("empty report content: %w", ErrContentRejected)
	}

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		System:           systemPrompt,
		MaxTokens:        maxSummaryTokens,
		Temperature:      temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: buildPrompt(req)}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal bedrock request: %w", err)
	}

	res, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		slog.Error("bedrock invocation failed", "model", s.modelID, "error", err)
		return "", classifyBedrockError(err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return "", fmt.Errorf("malformed bedrock response: %w: %w", ErrModelUnavailable, err)
	}
	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", fmt.Errorf("empty bedrock response: %w", ErrModelUnavailable)
	}

	return parsed.Content[0].Text, nil
}

func classifyBedrockError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ValidationException":
			return fmt.Errorf("bedrock rejected request: %w: %w", ErrContentRejected, err)
		}
	}
	return fmt.Errorf("bedrock invocation failed: %w: %w", ErrModelUnavailable, err)
}
