package llm

import (
	"testing"

	"assistant/internal/config"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude-haiku with version",
			modelStr:     "claude-haiku-4-5-20251001",
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5-20251001",
		},
		{
			name:         "explicit provider",
			modelStr:     "anthropic/claude-sonnet-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5",
		},
		{
			name:         "lorem-fast model",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:         "case insensitive prefix",
			modelStr:     "Claude-Opus",
			wantProvider: "anthropic",
			wantModel:    "Claude-Opus",
		},
		{name: "empty string", modelStr: "", wantErr: true},
		{name: "unknown prefix", modelStr: "gpt-4o", wantErr: true},
		{name: "empty provider", modelStr: "/claude-haiku", wantErr: true},
		{name: "empty model", modelStr: "anthropic/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("Provider = %v, want %v", got.Provider, tt.wantProvider)
			}
			if got.Model != tt.wantModel {
				t.Errorf("Model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}

func TestProviderFactory_Default(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.Config
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "inferred from model",
			cfg:          config.Config{DefaultModel: "lorem-slow"},
			wantProvider: "lorem",
			wantModel:    "lorem-slow",
		},
		{
			name:         "provider prefix stripped",
			cfg:          config.Config{DefaultModel: "anthropic/claude-haiku-4-5", AnthropicAPIKey: "sk-test"},
			wantProvider: "anthropic",
			wantModel:    "claude-haiku-4-5",
		},
		{
			name:         "explicit provider wins",
			cfg:          config.Config{DefaultProvider: "lorem", DefaultModel: "lorem-fast"},
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:    "unknown model",
			cfg:     config.Config{DefaultModel: "mistral-large"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			p, model, err := NewProviderFactory(&cfg).Default()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Default() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.Name() != tt.wantProvider || model != tt.wantModel {
				t.Errorf("Default() = %s/%s, want %s/%s", p.Name(), model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}
