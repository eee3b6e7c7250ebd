package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperror "github.com/Siddiha/Amp/internal/error"
	"github.com/Siddiha/Amp/internal/llm"
	"github.com/Siddiha/Amp/internal/player"
	"github.com/Siddiha/Amp/internal/retry"
)

// maxHistoryTurns bounds the conversation window sent to the model. Older
// turns are dropped, never persisted.
const maxHistoryTurns = 10

// Agent owns one bounded conversation and drives the two-phase tool loop:
// model call with tools enabled, optional local dispatch, then a mandatory
// follow-up call with tools disabled to phrase the outcome. Process calls
// must be serialized by the caller; only the cache underneath the player is
// safe to share.
type Agent struct {
	llm      llm.Client
	player   player.Controller
	retryCfg retry.Config
	logger   *zap.Logger

	history []llm.Message
	tools   map[string]toolFunc
}

// ------------------------------------------------------------------------------------------------------
// NewAgent creates a conversation agent with injected collaborators.
func NewAgent(client llm.Client, controller player.Controller, retryCfg retry.Config, logger *zap.Logger) *Agent {
	a := &Agent{
		llm:      client,
		player:   controller,
		retryCfg: retryCfg,
		logger:   logger,
		history:  make([]llm.Message, 0, maxHistoryTurns),
	}
	a.tools = a.dispatchTable()
	return a
}

// ------------------------------------------------------------------------------------------------------
// Process handles one user turn and always returns user-visible text. Any
// failure past input validation is recovered here and rendered as an
// "Error: ..." reply; the session never dies because of one bad turn. On a
// failed turn the user message stays in history and no assistant turn is
// appended.
func (a *Agent) Process(ctx context.Context, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Sprintf("Error: %s", apperror.ErrEmptyInput.Error())
	}

	a.append(llm.Message{Role: "user", Content: input})

	reply, err := a.respond(ctx)
	if err != nil {
		a.logger.Error("Turn failed", zap.Error(err))
		return fmt.Sprintf("Error: %s", errorMessage(err))
	}

	a.append(llm.Message{Role: "assistant", Content: reply})
	return reply
}

// ------------------------------------------------------------------------------------------------------
func (a *Agent) respond(ctx context.Context) (string, error) {
	result, err := a.chat(ctx, a.history, true)
	if err != nil {
		return "", err
	}

	if result.ToolUse == nil {
		if result.Text == "" {
			return fallbackReply, nil
		}
		return result.Text, nil
	}

	toolResult := a.dispatch(ctx, result.ToolUse)

	// The tool round-trip turns are scoped to the follow-up call; retained
	// history only ever holds plain user and assistant turns.
	extended := make([]llm.Message, 0, len(a.history)+2)
	extended = append(extended, a.history...)
	extended = append(extended, llm.Message{Role: "assistant", ToolUse: result.ToolUse})
	extended = append(extended, llm.Message{Role: "user", ToolResult: &llm.ToolResult{
		ToolUseID: result.ToolUse.ID,
		Content:   toolResult,
	}})

	followup, err := a.chat(ctx, extended, false)
	if err != nil {
		return "", err
	}
	if followup.Text == "" {
		return toolResult, nil
	}
	return followup.Text, nil
}

// ------------------------------------------------------------------------------------------------------
// chat issues one model call through the retry executor.
func (a *Agent) chat(ctx context.Context, messages []llm.Message, useTools bool) (*llm.Result, error) {
	var result *llm.Result
	err := retry.Do(ctx, a.retryCfg, func(ctx context.Context) error {
		var err error
		result, err = a.llm.Chat(ctx, messages, systemPrompt, useTools)
		return err
	})
	return result, err
}

// ------------------------------------------------------------------------------------------------------
// append adds a turn and truncates history to the retention window.
func (a *Agent) append(msg llm.Message) {
	a.history = append(a.history, msg)
	if len(a.history) > maxHistoryTurns {
		a.history = a.history[len(a.history)-maxHistoryTurns:]
	}
}

// History returns a copy of the retained conversation turns.
func (a *Agent) History() []llm.Message {
	out := make([]llm.Message, len(a.history))
	copy(out, a.history)
	return out
}

// Reset drops the conversation history.
func (a *Agent) Reset() {
	a.history = a.history[:0]
}

// ------------------------------------------------------------------------------------------------------
// errorMessage prefers the typed error's user-facing message over the full
// wrapped chain.
func errorMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
