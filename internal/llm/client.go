package llm

import "context"

// Client interface for model operations
type Client interface {
	Chat(ctx context.Context, messages []Message, systemPrompt string, useTools bool) (*Result, error)
}

// Message represents one conversation turn. Content carries plain text;
// ToolUse and ToolResult carry the structured payloads of the synthetic
// turns injected around a tool round-trip. At most one of the three is set.
type Message struct {
	Role       string
	Content    string
	ToolUse    *ToolUse
	ToolResult *ToolResult
}

// ToolUse is the model's request to invoke a named tool.
type ToolUse struct {
	ID    string
	Name  string
	Input Args
}

// ToolResult carries the textual outcome of a tool invocation back to the
// model, correlated by the originating tool use ID.
type ToolResult struct {
	ToolUseID string
	Content   string
}

// Result is the model's reply: plain text, a single tool use, or both.
type Result struct {
	Text    string
	ToolUse *ToolUse
}

// Args holds a tool call's arguments as decoded from JSON.
type Args map[string]any

// ------------------------------------------------------------------------------------------------------
// String returns the string argument for key, or "" when absent.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// ------------------------------------------------------------------------------------------------------
// Int returns the integer argument for key, or def when absent. JSON numbers
// decode as float64, so both forms are accepted.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// ------------------------------------------------------------------------------------------------------
// Bool returns the boolean argument for key, or false when absent.
func (a Args) Bool(key string) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return false
}
