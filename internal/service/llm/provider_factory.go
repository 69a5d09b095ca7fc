package llm

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go/option"

	"assistant/internal/config"
	domainllm "assistant/internal/domain/services/llm"
	"assistant/internal/service/llm/providers/anthropic"
	"assistant/internal/service/llm/providers/lorem"
)

// ProviderFactory creates completion provider instances from configuration.
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.CompletionProvider, error) {
	switch providerName {
	case "anthropic":
		return f.createAnthropicProvider()
	case "lorem":
		return lorem.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// Default returns the configured provider together with the model id to send
// it. DEFAULT_PROVIDER wins when set; otherwise the provider is taken from
// DEFAULT_MODEL (see ParseModel).
func (f *ProviderFactory) Default() (domainllm.CompletionProvider, string, error) {
	if f.config.DefaultProvider != "" {
		p, err := f.GetProvider(f.config.DefaultProvider)
		return p, f.config.DefaultModel, err
	}

	info, err := ParseModel(f.config.DefaultModel)
	if err != nil {
		return nil, "", err
	}
	p, err := f.GetProvider(info.Provider)
	return p, info.Model, err
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.CompletionProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	// Retry and backoff belong to the caller of a suggestion request.
	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey, option.WithMaxRetries(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return provider, nil
}
