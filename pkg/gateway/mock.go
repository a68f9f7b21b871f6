package gateway

import (
	"context"
	"strings"
)

// MockGateway returns deterministic responses for local runs and tests.
type MockGateway struct {
	responses       map[string]string
	defaultResponse string
}

// NewMockGateway creates a mock gateway with a default routing response.
// The empty inputs value tells the router to reuse the cleaned user text.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		responses:       make(map[string]string),
		defaultResponse: `{"selected_agent": "GENERAL", "inputs": ""}`,
	}
}

// NewMockGatewayWithResponses creates a mock gateway with predefined
// responses keyed by a substring of the prompt.
func NewMockGatewayWithResponses(responses map[string]string, defaultResponse string) *MockGateway {
	if defaultResponse == "" {
		defaultResponse = `{"selected_agent": "GENERAL", "inputs": ""}`
	}
	return &MockGateway{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the gateway identifier.
func (g *MockGateway) Name() string {
	return "mock"
}

// Classify returns a canned response for the prompt.
func (g *MockGateway) Classify(_ context.Context, prompt string) (string, error) {
	for key, response := range g.responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return g.defaultResponse, nil
}
