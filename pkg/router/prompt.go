package router

import (
	"fmt"
	"strings"

	"github.com/astralwake/jarviq/pkg/capability"
)

// buildSystemPrompt renders the classification preamble: every capability
// with its description, examples, and keywords, followed by the routing
// rules and the required output shape. Built once per Router and reused
// for every classification call.
func buildSystemPrompt(descriptors []capability.Descriptor) string {
	var sb strings.Builder
	sb.WriteString("You are an intent router for a personal assistant.\n")
	sb.WriteString("Pick the single best capability for the user's request.\n\n")
	sb.WriteString("Capabilities:\n")

	for _, d := range descriptors {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", d.Name, d.Description))
		if len(d.Examples) > 0 {
			sb.WriteString(fmt.Sprintf("  examples: %s\n", strings.Join(d.Examples, "; ")))
		}
		if len(d.Keywords) > 0 {
			sb.WriteString(fmt.Sprintf("  keywords: %s\n", strings.Join(d.Keywords, ", ")))
		}
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- Select exactly one capability from the list above.\n")
	sb.WriteString("- Never invent context the user did not provide.\n")
	sb.WriteString("- Rewrite the request into a direct instruction for the selected capability.\n")
	sb.WriteString("- Return ONLY JSON: {\"selected_agent\": \"NAME\", \"inputs\": \"instruction\"}.\n")
	sb.WriteString("\nUser request:\n")

	return sb.String()
}
