package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/agent"
	"github.com/Siddiha/Amp/internal/cache"
	"github.com/Siddiha/Amp/internal/history"
)

// REPL drives an interactive conversation on a terminal. Slash commands are
// handled locally; everything else becomes a turn for the agent.
type REPL struct {
	agent  *agent.Agent
	store  *cache.Cache
	plays  *history.Store // optional
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

// ------------------------------------------------------------------------------------------------------
func New(a *agent.Agent, store *cache.Cache, plays *history.Store, in io.Reader, out io.Writer, logger *zap.Logger) *REPL {
	return &REPL{
		agent:  a,
		store:  store,
		plays:  plays,
		in:     in,
		out:    out,
		logger: logger,
	}
}

// ------------------------------------------------------------------------------------------------------
// Run reads turns until EOF, /quit, or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "AMP - your music assistant. Type /help for commands, /quit to exit.")

	scanner := bufio.NewScanner(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := r.command(input); quit {
				return nil
			}
			continue
		}

		reply := r.agent.Process(ctx, input)
		fmt.Fprintf(r.out, "AMP: %s\n", reply)
	}
}

// ------------------------------------------------------------------------------------------------------
// command handles a slash command and reports whether to exit.
func (r *REPL) command(input string) bool {
	switch input {
	case "/quit", "/exit":
		fmt.Fprintln(r.out, "Bye!")
		return true

	case "/help":
		fmt.Fprintln(r.out, "Commands: /stats  cache statistics, /history  recent plays, /reset  clear conversation, /quit  exit")

	case "/stats":
		stats := r.store.Stats()
		fmt.Fprintf(r.out, "Cache: %d entries, %d hits, %d misses, hit rate %s\n",
			stats.Size, stats.Hits, stats.Misses, stats.HitRate)

	case "/reset":
		r.agent.Reset()
		fmt.Fprintln(r.out, "Conversation cleared.")

	case "/history":
		r.printHistory()

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", input)
	}
	return false
}

// ------------------------------------------------------------------------------------------------------
func (r *REPL) printHistory() {
	if r.plays == nil {
		fmt.Fprintln(r.out, "Play history is not enabled.")
		return
	}

	plays, err := r.plays.Recent(10)
	if err != nil {
		r.logger.Error("Failed to load play history", zap.Error(err))
		fmt.Fprintln(r.out, "Couldn't load play history.")
		return
	}
	if len(plays) == 0 {
		fmt.Fprintln(r.out, "No plays recorded yet.")
		return
	}

	for i, p := range plays {
		fmt.Fprintf(r.out, "%d. %s by %s\n", i+1, p.Track, p.Artists)
	}
}
