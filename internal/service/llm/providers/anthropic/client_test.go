package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	domainllm "assistant/internal/domain/services/llm"
)

const testSchema = `{"type":"object","properties":{"Reasoning":{"type":"string"}},"required":["Reasoning"],"additionalProperties":false}`

func newTestServer(t *testing.T, response string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			if err := json.Unmarshal(body, captured); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
}

func completionRequest() *domainllm.CompletionRequest {
	return &domainllm.CompletionRequest{
		Model:      "claude-haiku-4-5-20251001",
		System:     "plan trips",
		Messages:   []string{`{"Id":"P1"}`, "Suggest changes:", "add a museum"},
		Schema:     json.RawMessage(testSchema),
		SchemaName: "itinerary_changes",
		MaxTokens:  1024,
	}
}

func TestComplete_ForcesToolAndReturnsInput(t *testing.T) {
	var captured map[string]any
	srv := newTestServer(t, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-haiku-4-5-20251001",
		"content": [
			{"type": "text", "text": "Sure."},
			{"type": "tool_use", "id": "toolu_1", "name": "itinerary_changes", "input": {"Reasoning": "museum added"}}
		],
		"stop_reason": "tool_use", "stop_sequence": null,
		"usage": {"input_tokens": 120, "output_tokens": 30}
	}`, &captured)
	defer srv.Close()

	p, err := NewProvider("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Complete(context.Background(), completionRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	var content map[string]string
	if err := json.Unmarshal(resp.Content, &content); err != nil {
		t.Fatal(err)
	}
	if content["Reasoning"] != "museum added" {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.InputTokens != 120 || resp.OutputTokens != 30 {
		t.Errorf("usage = %d/%d", resp.InputTokens, resp.OutputTokens)
	}

	choice := captured["tool_choice"].(map[string]any)
	if choice["type"] != "tool" || choice["name"] != "itinerary_changes" {
		t.Errorf("tool_choice = %v", choice)
	}
	tools := captured["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("tools = %v", tools)
	}
	schema := tools[0].(map[string]any)["input_schema"].(map[string]any)
	if schema["additionalProperties"] != false {
		t.Errorf("input_schema = %v", schema)
	}
	if schema["type"] != "object" {
		t.Errorf("input_schema type = %v", schema["type"])
	}
	messages := captured["messages"].([]any)
	if len(messages) != 1 {
		t.Errorf("expected one user message, got %d", len(messages))
	}
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no tool call", `{"id":"msg_1","type":"message","role":"assistant","model":"claude-x","content":[{"type":"text","text":"no"}],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":1}}`},
		{"truncated", `{"id":"msg_1","type":"message","role":"assistant","model":"claude-x","content":[],"stop_reason":"max_tokens","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.response, nil)
			defer srv.Close()

			p, _ := NewProvider("test-key", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
			if _, err := p.Complete(context.Background(), completionRequest()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestComplete_RejectsOtherModels(t *testing.T) {
	p, _ := NewProvider("test-key")
	req := completionRequest()
	req.Model = "lorem-fast"
	if _, err := p.Complete(context.Background(), req); err == nil {
		t.Error("expected unsupported model error")
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider(""); err == nil {
		t.Error("expected error for empty API key")
	}
}
