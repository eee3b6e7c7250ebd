package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/agent"
	"github.com/Siddiha/Amp/internal/cache"
	"github.com/Siddiha/Amp/internal/llm"
	"github.com/Siddiha/Amp/internal/retry"
)

// scriptedClient replies with canned text.
type scriptedClient struct {
	reply string
}

func (c *scriptedClient) Chat(ctx context.Context, messages []llm.Message, systemPrompt string, useTools bool) (*llm.Result, error) {
	return &llm.Result{Text: c.reply}, nil
}

func runREPL(t *testing.T, input string) string {
	t.Helper()

	a := agent.NewAgent(&scriptedClient{reply: "Sure!"}, nil, retry.Config{MaxAttempts: 1}, zap.NewNop())
	store := cache.New(time.Minute, 16)

	var out bytes.Buffer
	repl := New(a, store, nil, strings.NewReader(input), &out, zap.NewNop())
	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String()
}

// ------------------------------------------------------------------------------------------------------
func TestREPLConversation(t *testing.T) {
	out := runREPL(t, "play something\n/quit\n")

	if !strings.Contains(out, "AMP: Sure!") {
		t.Errorf("expected agent reply in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Bye!") {
		t.Errorf("expected farewell, got:\n%s", out)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestREPLStatsCommand(t *testing.T) {
	out := runREPL(t, "/stats\n/quit\n")

	if !strings.Contains(out, "hit rate") {
		t.Errorf("expected cache stats, got:\n%s", out)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestREPLHistoryDisabled(t *testing.T) {
	out := runREPL(t, "/history\n/quit\n")

	if !strings.Contains(out, "not enabled") {
		t.Errorf("expected disabled history notice, got:\n%s", out)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestREPLUnknownCommand(t *testing.T) {
	out := runREPL(t, "/dance\n/quit\n")

	if !strings.Contains(out, "Unknown command: /dance") {
		t.Errorf("expected unknown command notice, got:\n%s", out)
	}
}

// ------------------------------------------------------------------------------------------------------
func TestREPLExitsOnEOF(t *testing.T) {
	out := runREPL(t, "hello\n")

	if !strings.Contains(out, "AMP: Sure!") {
		t.Errorf("expected reply before EOF, got:\n%s", out)
	}
}
