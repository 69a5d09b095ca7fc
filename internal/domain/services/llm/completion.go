package llm

import (
	"context"
	"encoding/json"
)

// CompletionProvider issues structured completions: the response must be a
// single JSON document conforming to the request schema.
type CompletionProvider interface {
	// Complete runs one completion and returns the schema-conforming document.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "anthropic", "lorem")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// CompletionRequest contains the parameters for a structured completion.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "claude-haiku-4-5-20251001")
	Model string

	// System holds the system instruction
	System string

	// Messages are sent as user turns, in order
	Messages []string

	// Schema is the closed-world JSON schema the output must satisfy
	Schema json.RawMessage

	// SchemaName names the schema (used as the tool name by tool-calling providers)
	SchemaName string

	MaxTokens int
}

// CompletionResponse contains the provider's structured output.
type CompletionResponse struct {
	// Content is the JSON document produced under the request schema
	Content json.RawMessage

	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}
