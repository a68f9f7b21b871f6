package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleGateway classifies prompts with a Gemini model.
type GoogleGateway struct {
	client *genai.Client
	model  string
}

// NewGoogleGateway creates a gateway backed by the Gemini API.
func NewGoogleGateway(apiKey, model string) (*GoogleGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}
	if model == "" {
		model = "gemini-2.0-pro"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleGateway{client: client, model: model}, nil
}

// Name returns the gateway identifier.
func (g *GoogleGateway) Name() string {
	return "google"
}

// Classify sends the prompt to Gemini and returns the raw response text.
func (g *GoogleGateway) Classify(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return content, nil
}
