package service

import (
	"io"
	"log/slog"
	"testing"

	"assistant/internal/capabilities"
)

func TestOutputBudget(t *testing.T) {
	registry, err := capabilities.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		provider   string
		model      string
		configured int
		want       int
	}{
		{"within limit", "anthropic", "claude-haiku-4-5-20251001", 8192, 8192},
		{"capped at model limit", "anthropic", "claude-3-5-haiku-20241022", 16000, 8192},
		{"unknown model keeps setting", "anthropic", "claude-next", 12000, 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputBudget(registry, tt.provider, tt.model, tt.configured, logger)
			if err != nil {
				t.Fatalf("outputBudget() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("outputBudget() = %d, want %d", got, tt.want)
			}
		})
	}
}
