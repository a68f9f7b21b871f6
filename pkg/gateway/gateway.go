package gateway

import "context"

// Gateway is the boundary to an external text-completion capability.
// Implementations make exactly one model call per Classify invocation and
// perform no retries of their own; retry policy belongs to the caller.
type Gateway interface {
	// Classify sends a fully assembled prompt to the model and returns the
	// raw, untrusted response text. The text may wrap a JSON object in
	// prose, may be truncated, or may be empty.
	Classify(ctx context.Context, prompt string) (string, error)

	// Name returns the gateway's identifier.
	Name() string
}
