package gateway

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGateway classifies prompts with a Claude model.
type AnthropicGateway struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGateway creates a gateway backed by the Anthropic API.
func NewAnthropicGateway(apiKey, model string) (*AnthropicGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGateway{client: client, model: model}, nil
}

// Name returns the gateway identifier.
func (g *AnthropicGateway) Name() string {
	return "anthropic"
}

// Classify sends the prompt to Claude and returns the raw response text.
func (g *AnthropicGateway) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}
