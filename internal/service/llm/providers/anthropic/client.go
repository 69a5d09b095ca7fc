package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	domainllm "assistant/internal/domain/services/llm"
)

// Provider implements CompletionProvider for Anthropic (Claude) models.
// Structured output is obtained through forced tool use: the response schema
// becomes the input schema of a single tool the model must call.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// Complete runs one forced-tool completion and returns the tool input.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	inputSchema, err := toInputSchema(req.Schema)
	if err != nil {
		return nil, err
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		blocks = append(blocks, anthropic.NewTextBlock(m))
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		MaxTokens: maxTokens,
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        req.SchemaName,
				Description: anthropic.String("Submit the changes. The input must follow the schema exactly."),
				InputSchema: inputSchema,
			},
		}},
		ToolChoice: anthropic.ToolChoiceParamOfTool(req.SchemaName),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	if message.StopReason == anthropic.StopReasonMaxTokens {
		return nil, errors.New("response was truncated at max_tokens")
	}

	for _, block := range message.Content {
		if block.Type != "tool_use" {
			continue
		}
		toolUse := block.AsToolUse()
		if toolUse.Name != req.SchemaName {
			continue
		}
		return &domainllm.CompletionResponse{
			Content:      toolUse.Input,
			Model:        string(message.Model),
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
			StopReason:   string(message.StopReason),
		}, nil
	}

	return nil, fmt.Errorf("response has no %s tool call", req.SchemaName)
}

// toInputSchema converts a root object schema into the SDK's tool schema.
func toInputSchema(schema json.RawMessage) (anthropic.ToolInputSchemaParam, error) {
	var root struct {
		Type                 string          `json:"type"`
		Properties           json.RawMessage `json:"properties"`
		Required             []string        `json:"required"`
		AdditionalProperties *bool           `json:"additionalProperties"`
	}
	if err := json.Unmarshal(schema, &root); err != nil {
		return anthropic.ToolInputSchemaParam{}, fmt.Errorf("invalid response schema: %w", err)
	}
	if root.Type != "object" {
		return anthropic.ToolInputSchemaParam{}, fmt.Errorf("response schema must be an object, got %q", root.Type)
	}

	out := anthropic.ToolInputSchemaParam{
		Properties: root.Properties,
		Required:   root.Required,
	}
	if root.AdditionalProperties != nil {
		out.ExtraFields = map[string]any{"additionalProperties": *root.AdditionalProperties}
	}
	return out, nil
}
