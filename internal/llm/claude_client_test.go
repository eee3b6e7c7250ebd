package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperror "github.com/Siddiha/Amp/internal/error"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ClaudeClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClaudeClient("test-key", server.URL, "claude-sonnet-4-5", 300, zap.NewNop())
}

func TestClaudeClient_ChatParsesText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing version header")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Tools) != 0 {
			t.Errorf("tools should be omitted when disabled")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_1",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "Now playing!"},
			},
			"stop_reason": "end_turn",
		})
	})

	result, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "play something"}}, "system", false)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Text != "Now playing!" {
		t.Errorf("Text = %q", result.Text)
	}
	if result.ToolUse != nil {
		t.Errorf("unexpected tool use: %+v", result.ToolUse)
	}
}

func TestClaudeClient_ChatParsesToolUse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Tools) != len(Tools) {
			t.Errorf("expected %d tools in request, got %d", len(Tools), len(req.Tools))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_2",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "tool_use", "id": "toolu_1", "name": "play_music", "input": map[string]any{"query": "chill music"}},
			},
			"stop_reason": "tool_use",
		})
	})

	result, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "play chill music"}}, "system", true)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.ToolUse == nil {
		t.Fatal("expected tool use")
	}
	if result.ToolUse.Name != "play_music" {
		t.Errorf("tool name = %q", result.ToolUse.Name)
	}
	if result.ToolUse.ID != "toolu_1" {
		t.Errorf("tool id = %q", result.ToolUse.ID)
	}
	if got := result.ToolUse.Input.String("query"); got != "chill music" {
		t.Errorf("query = %q", got)
	}
}

func TestClaudeClient_ChatSerializesToolRoundTrip(t *testing.T) {
	var captured struct {
		Messages []struct {
			Role    string            `json:"role"`
			Content []json.RawMessage `json:"content"`
		} `json:"messages"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": "done"}},
		})
	})

	messages := []Message{
		{Role: "assistant", ToolUse: &ToolUse{ID: "toolu_1", Name: "pause_music", Input: Args{}}},
		{Role: "user", ToolResult: &ToolResult{ToolUseID: "toolu_1", Content: "Paused"}},
	}

	if _, err := client.Chat(context.Background(), messages, "system", false); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("wire messages = %d, want 2", len(captured.Messages))
	}

	var useBlock contentBlock
	if err := json.Unmarshal(captured.Messages[0].Content[0], &useBlock); err != nil {
		t.Fatal(err)
	}
	if useBlock.Type != "tool_use" || useBlock.Name != "pause_music" {
		t.Errorf("tool_use block = %+v", useBlock)
	}

	var resultBlock contentBlock
	if err := json.Unmarshal(captured.Messages[1].Content[0], &resultBlock); err != nil {
		t.Fatal(err)
	}
	if resultBlock.Type != "tool_result" || resultBlock.ToolUseID != "toolu_1" || resultBlock.Content != "Paused" {
		t.Errorf("tool_result block = %+v", resultBlock)
	}
}

func TestClaudeClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantType  apperror.ErrorType
		retryable bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantType: apperror.ErrorTypeRateLimit, retryable: true},
		{name: "server error", status: http.StatusInternalServerError, wantType: apperror.ErrorTypeLLM, retryable: true},
		{name: "bad request", status: http.StatusBadRequest, wantType: apperror.ErrorTypeValidation, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream says no", tt.status)
			})

			_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, "", false)
			if err == nil {
				t.Fatal("expected error")
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("error %v is not an AppError", err)
			}
			if appErr.Type != tt.wantType {
				t.Errorf("type = %s, want %s", appErr.Type, tt.wantType)
			}
			if got := apperror.Retryable(err); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestArgs_Accessors(t *testing.T) {
	args := Args{"query": "queen", "volume": float64(80), "enabled": true}

	if args.String("query") != "queen" {
		t.Errorf("String('query') = %q", args.String("query"))
	}
	if args.String("missing") != "" {
		t.Errorf("String on missing key should be empty")
	}
	if args.Int("volume", 50) != 80 {
		t.Errorf("Int('volume') = %d", args.Int("volume", 50))
	}
	if args.Int("missing", 20) != 20 {
		t.Errorf("Int default = %d", args.Int("missing", 20))
	}
	if !args.Bool("enabled") {
		t.Error("Bool('enabled') = false")
	}
	if args.Bool("missing") {
		t.Error("Bool on missing key should be false")
	}
}
