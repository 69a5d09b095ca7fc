package suggestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/services"
	domainllm "assistant/internal/domain/services/llm"
)

// failurePrefix starts every provider failure message.
const failurePrefix = "Failed to get suggested changes"

// Provider implements services.ChangeProvider over a structured completion.
type Provider[M any, I project.Item] struct {
	completion  domainllm.CompletionProvider
	profile     *Profile
	newResponse func() ResponseModel[M, I]
	schema      json.RawMessage
	model       string
	maxTokens   int
	logger      *slog.Logger
}

// ProviderConfig carries the per-deployment completion settings.
type ProviderConfig struct {
	Model     string
	MaxTokens int
}

// NewProvider builds a provider. The response schema is generated once from
// newResponse().
func NewProvider[M any, I project.Item](
	completion domainllm.CompletionProvider,
	profile *Profile,
	newResponse func() ResponseModel[M, I],
	cfg ProviderConfig,
	logger *slog.Logger,
) (*Provider[M, I], error) {
	if !completion.SupportsModel(cfg.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by %s provider", cfg.Model, completion.Name())
	}
	schema, err := GenerateSchema(newResponse())
	if err != nil {
		return nil, fmt.Errorf("generate %s schema: %w", profile.SchemaName, err)
	}
	return &Provider[M, I]{
		completion:  completion,
		profile:     profile,
		newResponse: newResponse,
		schema:      schema,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}, nil
}

// Schema returns the closed-world schema sent with every request.
func (p *Provider[M, I]) Schema() json.RawMessage {
	return p.schema
}

// GetChanges asks the completion service for changes and decodes them into
// one ordered sequence. Any failure yields a single DependencyError and no
// partial result.
func (p *Provider[M, I]) GetChanges(ctx context.Context, proj *project.Project[M, I], prompt string) (*services.Suggestion[M, I], error) {
	state, err := json.Marshal(proj)
	if err != nil {
		return nil, fmt.Errorf("serialize project %s: %w", proj.ID, err)
	}

	resp, err := p.completion.Complete(ctx, &domainllm.CompletionRequest{
		Model:      p.model,
		System:     p.profile.SystemMessage,
		Messages:   []string{string(state), p.profile.PromptIntro, prompt},
		Schema:     p.schema,
		SchemaName: p.profile.SchemaName,
		MaxTokens:  p.maxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Error("completion failed", "project_id", proj.ID, "provider", p.completion.Name(), "error", err)
		return nil, p.failure(err)
	}

	suggestion, err := p.decode(resp.Content)
	if err != nil {
		p.logger.Warn("completion response rejected",
			"project_id", proj.ID,
			"error", err,
			"stop_reason", resp.StopReason,
		)
		return nil, p.failure(err)
	}

	p.logger.Debug("completion decoded",
		"project_id", proj.ID,
		"changes", len(suggestion.Changes),
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	return suggestion, nil
}

func (p *Provider[M, I]) decode(content json.RawMessage) (*services.Suggestion[M, I], error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("empty response")
	}

	response := p.newResponse()
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(response); err != nil {
		return nil, fmt.Errorf("response does not match schema: %w", err)
	}

	categories, err := response.Categories()
	if err != nil {
		return nil, err
	}
	changes := Merge(categories...)
	if len(changes) > config.MaxChangesPerBatch {
		return nil, fmt.Errorf("%d changes exceed the limit of %d", len(changes), config.MaxChangesPerBatch)
	}

	return &services.Suggestion[M, I]{
		Changes:   changes,
		Reasoning: response.Explanation(),
	}, nil
}

func (p *Provider[M, I]) failure(err error) error {
	return &domain.DependencyError{Message: fmt.Sprintf("%s from %s: %v", failurePrefix, p.completion.Name(), err)}
}
