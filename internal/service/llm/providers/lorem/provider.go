package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "assistant/internal/domain/services/llm"
)

// Provider is a mock completion provider that fills the response schema with
// lorem ipsum text. Used for testing and development without requiring real
// API keys.
//
// The generated document is always valid against the schema and carries no
// changes: arrays are empty, strings are sentences.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow", "lorem-test"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// Complete waits for a model-dependent delay and returns a document shaped by
// req.Schema.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}

	var schema map[string]any
	if err := json.Unmarshal(req.Schema, &schema); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}

	select {
	case <-time.After(getDelay(req.Model)):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	content, err := json.Marshal(p.generate(schema))
	if err != nil {
		return nil, err
	}

	return &domainllm.CompletionResponse{
		Content:      content,
		Model:        req.Model,
		InputTokens:  estimateTokens(req.Messages),
		OutputTokens: len(strings.Fields(string(content))),
		StopReason:   "tool_use",
	}, nil
}

// getDelay returns the simulated latency for a model.
// - lorem-slow: 2s
// - lorem-fast: none
// - default: 200ms
func getDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 2 * time.Second
	}
	if strings.Contains(model, "fast") {
		return 0
	}
	return 200 * time.Millisecond
}

func (p *Provider) generate(schema map[string]any) any {
	switch schema["type"] {
	case "object":
		out := map[string]any{}
		props, _ := schema["properties"].(map[string]any)
		for name, raw := range props {
			if prop, ok := raw.(map[string]any); ok {
				out[name] = p.generate(prop)
			}
		}
		return out
	case "array":
		return []any{}
	case "string":
		return p.generator.Sentence(5, 12)
	case "integer", "number":
		return 0
	case "boolean":
		return false
	default:
		return nil
	}
}

// estimateTokens approximates 1 token per 4 characters.
func estimateTokens(messages []string) int {
	total := 0
	for _, m := range messages {
		total += len(m) / 4
	}
	return total
}
