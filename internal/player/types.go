package player

import "context"

// Track is the subset of track metadata the assistant talks about.
type Track struct {
	Name       string `json:"name"`
	Artists    string `json:"artists"`
	Album      string `json:"album,omitempty"`
	URI        string `json:"uri"`
	IsPlaying  bool   `json:"is_playing,omitempty"`
	ProgressMs int    `json:"progress_ms,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

// Controller is the playback action provider consumed by the agent's
// dispatch table. Every operation returns a human-readable status string or
// a typed error; the dispatch boundary turns errors into result text.
type Controller interface {
	Play(ctx context.Context) (string, error)
	SearchAndPlay(ctx context.Context, query string) (string, error)
	Pause(ctx context.Context) (string, error)
	NextTrack(ctx context.Context) (string, error)
	PreviousTrack(ctx context.Context) (string, error)
	Search(ctx context.Context, query string) ([]Track, error)
	NowPlaying(ctx context.Context) (*Track, error)
	SetVolume(ctx context.Context, volume int) (string, error)
	AddToQueue(ctx context.Context, query string) (string, error)
	Recommendations(ctx context.Context, mood string, limit int) ([]Track, error)
	CreatePlaylist(ctx context.Context, name, mood string, count int) (string, error)
	SaveCurrent(ctx context.Context) (string, error)
	SetShuffle(ctx context.Context, enabled bool) (string, error)
}

// Recorder receives tracks that started playing. Implementations are
// best-effort; the player logs and moves on when recording fails.
type Recorder interface {
	Record(track Track) error
}
