package llm

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// EstimateTokens approximates the prompt size of a message list using the
// cl100k_base encoding. The count is diagnostic only; the API meters actual
// usage server-side.
func EstimateTokens(messages []Message) (int, error) {
	enc, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return 0, fmt.Errorf("failed to get tokenizer: %w", err)
	}

	totalTokens := 0
	for _, msg := range messages {
		content := msg.Content
		if msg.ToolUse != nil {
			content = fmt.Sprintf("%s %v", msg.ToolUse.Name, msg.ToolUse.Input)
		} else if msg.ToolResult != nil {
			content = msg.ToolResult.Content
		}

		tokens, _, err := enc.Encode(content)
		if err != nil {
			return 0, fmt.Errorf("failed to encode content: %w", err)
		}
		totalTokens += len(tokens)

		// Overhead for role and structure (approximate)
		totalTokens += 4
	}

	return totalTokens, nil
}
