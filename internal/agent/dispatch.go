package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/llm"
	"github.com/Siddiha/Amp/internal/player"
)

// toolFunc executes one tool call against the action provider and returns
// the textual result fed back to the model.
type toolFunc func(ctx context.Context, args llm.Args) (string, error)

// ------------------------------------------------------------------------------------------------------
// dispatchTable binds every tool name the model may use to a player
// operation. Only input defaulting lives here; an empty play_music query
// means resume, not "search for nothing".
func (a *Agent) dispatchTable() map[string]toolFunc {
	return map[string]toolFunc{
		"play_music": func(ctx context.Context, args llm.Args) (string, error) {
			query := args.String("query")
			if query == "" {
				return a.player.Play(ctx)
			}
			return a.player.SearchAndPlay(ctx, query)
		},
		"pause_music": func(ctx context.Context, _ llm.Args) (string, error) {
			return a.player.Pause(ctx)
		},
		"skip_track": func(ctx context.Context, _ llm.Args) (string, error) {
			return a.player.NextTrack(ctx)
		},
		"previous_track": func(ctx context.Context, _ llm.Args) (string, error) {
			return a.player.PreviousTrack(ctx)
		},
		"search_music": func(ctx context.Context, args llm.Args) (string, error) {
			query := args.String("query")
			tracks, err := a.player.Search(ctx, query)
			if err != nil {
				return "", err
			}
			if len(tracks) == 0 {
				return fmt.Sprintf("No results for '%s'", query), nil
			}
			return "Found:\n" + formatTracks(tracks), nil
		},
		"get_now_playing": func(ctx context.Context, _ llm.Args) (string, error) {
			track, err := a.player.NowPlaying(ctx)
			if err != nil {
				return "", err
			}
			if track == nil {
				return "Nothing is playing right now", nil
			}
			status := fmt.Sprintf("Now playing: %s by %s", track.Name, track.Artists)
			if !track.IsPlaying {
				status += " (paused)"
			}
			return status, nil
		},
		"set_volume": func(ctx context.Context, args llm.Args) (string, error) {
			return a.player.SetVolume(ctx, args.Int("volume", 50))
		},
		"add_to_queue": func(ctx context.Context, args llm.Args) (string, error) {
			return a.player.AddToQueue(ctx, args.String("query"))
		},
		"get_recommendations": func(ctx context.Context, args llm.Args) (string, error) {
			mood := args.String("mood")
			tracks, err := a.player.Recommendations(ctx, mood, 10)
			if err != nil {
				return "", err
			}
			if len(tracks) == 0 {
				return "Couldn't find recommendations", nil
			}
			return "Recommendations:\n" + formatTracks(tracks), nil
		},
		"create_playlist": func(ctx context.Context, args llm.Args) (string, error) {
			name := args.String("name")
			return a.player.CreatePlaylist(ctx, name, args.String("mood"), args.Int("count", 20))
		},
		"save_current_track": func(ctx context.Context, _ llm.Args) (string, error) {
			return a.player.SaveCurrent(ctx)
		},
		"toggle_shuffle": func(ctx context.Context, args llm.Args) (string, error) {
			return a.player.SetShuffle(ctx, args.Bool("enabled"))
		},
	}
}

// ------------------------------------------------------------------------------------------------------
// dispatch resolves and runs a tool call. Unknown names and provider
// failures both become result text; nothing propagates past this boundary.
func (a *Agent) dispatch(ctx context.Context, call *llm.ToolUse) string {
	fn, ok := a.tools[call.Name]
	if !ok {
		a.logger.Warn("Model requested unknown tool", zap.String("tool", call.Name))
		return "Unknown command"
	}

	a.logger.Debug("Dispatching tool", zap.String("tool", call.Name))

	result, err := fn(ctx, call.Input)
	if err != nil {
		a.logger.Warn("Tool failed",
			zap.String("tool", call.Name),
			zap.Error(err),
		)
		return fmt.Sprintf("Error: %s", errorMessage(err))
	}
	return result
}

// ------------------------------------------------------------------------------------------------------
func formatTracks(tracks []player.Track) string {
	lines := make([]string, len(tracks))
	for i, t := range tracks {
		lines[i] = fmt.Sprintf("%d. %s by %s", i+1, t.Name, t.Artists)
	}
	return strings.Join(lines, "\n")
}
