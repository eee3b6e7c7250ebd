package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ClaudeClient handles communication with the Anthropic Messages API
type ClaudeClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClaudeClient creates a new Claude client
func NewClaudeClient(apiKey, baseURL, model string, maxTokens int, logger *zap.Logger) *ClaudeClient {
	return &ClaudeClient{
		apiKey:    apiKey,
		baseURL:   baseURL,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// chatRequest represents the request to the Messages API
type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Tools       []Tool        `json:"tools,omitempty"`
}

// wireMessage is a conversation turn in API form. Content is either a plain
// string or an array of content blocks.
type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentBlock covers the text, tool_use and tool_result block shapes.
type contentBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Input     Args   `json:"input,omitempty"`
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// chatResponse represents the Messages API response
type chatResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ------------------------------------------------------------------------------------------------------
// Chat sends the conversation to the model and returns its reply: text, a
// single tool use, or both. With useTools false the tool schema is omitted,
// forcing a plain-text reply.
func (c *ClaudeClient) Chat(ctx context.Context, messages []Message, systemPrompt string, useTools bool) (*Result, error) {
	reqBody := chatRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
		System:      systemPrompt,
		Messages:    toWireMessages(messages),
	}
	if useTools {
		reqBody.Tools = Tools
	}

	if estimate, err := EstimateTokens(messages); err == nil {
		c.logger.Debug("Calling model",
			zap.Int("messages", len(messages)),
			zap.Int("prompt_tokens_estimate", estimate),
			zap.Bool("tools", useTools),
		)
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &Result{}
	for _, block := range chatResp.Content {
		switch block.Type {
		case "text":
			result.Text = block.Text
		case "tool_use":
			result.ToolUse = &ToolUse{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			}
		}
	}

	c.logger.Debug("Model reply",
		zap.String("stop_reason", chatResp.StopReason),
		zap.Int("output_tokens", chatResp.Usage.OutputTokens),
	)

	return result, nil
}

// ------------------------------------------------------------------------------------------------------
// toWireMessages converts conversation turns to API form. Tool use and tool
// result turns become single-block content arrays; plain turns stay strings.
func toWireMessages(messages []Message) []wireMessage {
	wire := make([]wireMessage, len(messages))
	for i, msg := range messages {
		switch {
		case msg.ToolUse != nil:
			wire[i] = wireMessage{
				Role: msg.Role,
				Content: []contentBlock{{
					Type:  "tool_use",
					ID:    msg.ToolUse.ID,
					Name:  msg.ToolUse.Name,
					Input: msg.ToolUse.Input,
				}},
			}
		case msg.ToolResult != nil:
			wire[i] = wireMessage{
				Role: msg.Role,
				Content: []contentBlock{{
					Type:      "tool_result",
					ToolUseID: msg.ToolResult.ToolUseID,
					Content:   msg.ToolResult.Content,
				}},
			}
		default:
			wire[i] = wireMessage{Role: msg.Role, Content: msg.Content}
		}
	}
	return wire
}
