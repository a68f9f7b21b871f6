package gateway

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGateway classifies prompts with an OpenAI model.
type OpenAIGateway struct {
	client openai.Client
	model  string
}

// NewOpenAIGateway creates a gateway backed by the OpenAI API.
func NewOpenAIGateway(apiKey, model string) (*OpenAIGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = "gpt-5.2-instant"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIGateway{client: client, model: model}, nil
}

// Name returns the gateway identifier.
func (g *OpenAIGateway) Name() string {
	return "openai"
}

// Classify sends the prompt to OpenAI and returns the raw response text.
func (g *OpenAIGateway) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(1024),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
