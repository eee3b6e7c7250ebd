package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Siddiha/Amp/internal/cache"
	"github.com/Siddiha/Amp/internal/retry"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"

	searchLimit = 5
)

// SpotifyClient talks to the Spotify Web API and implements Controller.
// Read queries (search, recommendations) are memoized through the shared
// cache; every remote call sits inside the retry executor.
type SpotifyClient struct {
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string
	refreshToken string

	httpClient *http.Client
	logger     *zap.Logger

	cache      *cache.Cache
	trackCache *TrackCache // optional, shared across processes
	recorder   Recorder    // optional
	retryCfg   retry.Config
	cacheTTL   time.Duration

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// SpotifyOptions bundles the dependencies injected into the client.
type SpotifyOptions struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// BaseURL and AuthURL override the Spotify endpoints, for tests.
	BaseURL string
	AuthURL string

	Cache      *cache.Cache
	TrackCache *TrackCache
	Recorder   Recorder
	Retry      retry.Config
	CacheTTL   time.Duration
}

// ------------------------------------------------------------------------------------------------------
// NewSpotifyClient creates a Spotify Web API client
func NewSpotifyClient(opts SpotifyOptions, logger *zap.Logger) *SpotifyClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	authURL := opts.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	store := opts.Cache
	if store == nil {
		store = cache.New(cacheTTL, 256)
	}

	return &SpotifyClient{
		baseURL:      baseURL,
		authURL:      authURL,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		refreshToken: opts.RefreshToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:     logger,
		cache:      store,
		trackCache: opts.TrackCache,
		recorder:   opts.Recorder,
		retryCfg:   opts.Retry,
		cacheTTL:   cacheTTL,
	}
}

// Spotify API payload shapes, trimmed to the fields we read.

type apiArtist struct {
	Name string `json:"name"`
}

type apiAlbum struct {
	Name string `json:"name"`
}

type apiTrack struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	URI        string      `json:"uri"`
	DurationMs int         `json:"duration_ms"`
	Artists    []apiArtist `json:"artists"`
	Album      apiAlbum    `json:"album"`
}

type playbackState struct {
	IsPlaying  bool      `json:"is_playing"`
	ProgressMs int       `json:"progress_ms"`
	Item       *apiTrack `json:"item"`
}

// ------------------------------------------------------------------------------------------------------
func (t apiTrack) toTrack() Track {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return Track{
		Name:       t.Name,
		Artists:    strings.Join(names, ", "),
		Album:      t.Album.Name,
		URI:        t.URI,
		DurationMs: t.DurationMs,
	}
}

// ------------------------------------------------------------------------------------------------------
// NowPlaying returns the current track, or nil when nothing is playing.
func (c *SpotifyClient) NowPlaying(ctx context.Context) (*Track, error) {
	var state playbackState
	found := false

	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, err := c.doRequest(ctx, http.MethodGet, "/me/player", nil, nil)
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, &state); err != nil {
			return fmt.Errorf("failed to decode playback state: %w", err)
		}
		found = state.Item != nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	track := state.Item.toTrack()
	track.IsPlaying = state.IsPlaying
	track.ProgressMs = state.ProgressMs
	return &track, nil
}

// ------------------------------------------------------------------------------------------------------
// Play resumes playback on the active device.
func (c *SpotifyClient) Play(ctx context.Context) (string, error) {
	if err := c.command(ctx, http.MethodPut, "/me/player/play", nil, nil); err != nil {
		return "", err
	}
	return "Playing", nil
}

// ------------------------------------------------------------------------------------------------------
// SearchAndPlay finds the best match for query and starts it.
func (c *SpotifyClient) SearchAndPlay(ctx context.Context, query string) (string, error) {
	tracks, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return fmt.Sprintf("No results for '%s'", query), nil
	}

	track := tracks[0]
	if err := c.playURI(ctx, track.URI); err != nil {
		return "", err
	}

	c.record(track)
	return fmt.Sprintf("Playing - %s by %s", track.Name, track.Artists), nil
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) playURI(ctx context.Context, uri string) error {
	var body map[string]any
	if strings.Contains(uri, ":track:") {
		body = map[string]any{"uris": []string{uri}}
	} else {
		body = map[string]any{"context_uri": uri}
	}
	return c.command(ctx, http.MethodPut, "/me/player/play", nil, body)
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) Pause(ctx context.Context) (string, error) {
	if err := c.command(ctx, http.MethodPut, "/me/player/pause", nil, nil); err != nil {
		return "", err
	}
	return "Paused", nil
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) NextTrack(ctx context.Context) (string, error) {
	if err := c.command(ctx, http.MethodPost, "/me/player/next", nil, nil); err != nil {
		return "", err
	}
	return "Skipped to next", nil
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) PreviousTrack(ctx context.Context) (string, error) {
	if err := c.command(ctx, http.MethodPost, "/me/player/previous", nil, nil); err != nil {
		return "", err
	}
	return "Previous track", nil
}

// ------------------------------------------------------------------------------------------------------
// SetVolume clamps the requested volume into [0,100] and applies it.
func (c *SpotifyClient) SetVolume(ctx context.Context, volume int) (string, error) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	query := url.Values{"volume_percent": {strconv.Itoa(volume)}}
	if err := c.command(ctx, http.MethodPut, "/me/player/volume", query, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("Volume: %d%%", volume), nil
}

// ------------------------------------------------------------------------------------------------------
// SetShuffle turns shuffle mode on or off.
func (c *SpotifyClient) SetShuffle(ctx context.Context, enabled bool) (string, error) {
	query := url.Values{"state": {strconv.FormatBool(enabled)}}
	if err := c.command(ctx, http.MethodPut, "/me/player/shuffle", query, nil); err != nil {
		return "", err
	}
	if enabled {
		return "Shuffle on", nil
	}
	return "Shuffle off", nil
}

// ------------------------------------------------------------------------------------------------------
// AddToQueue searches for query and enqueues the best match.
func (c *SpotifyClient) AddToQueue(ctx context.Context, query string) (string, error) {
	tracks, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return fmt.Sprintf("No results for '%s'", query), nil
	}

	params := url.Values{"uri": {tracks[0].URI}}
	if err := c.command(ctx, http.MethodPost, "/me/player/queue", params, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("Added to queue: %s", tracks[0].Name), nil
}

// ------------------------------------------------------------------------------------------------------
// SaveCurrent saves the playing track to the user's library.
func (c *SpotifyClient) SaveCurrent(ctx context.Context) (string, error) {
	var state playbackState
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, err := c.doRequest(ctx, http.MethodGet, "/me/player", nil, nil)
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, &state)
	})
	if err != nil {
		return "", err
	}
	if state.Item == nil {
		return "Nothing playing", nil
	}

	query := url.Values{"ids": {state.Item.ID}}
	if err := c.command(ctx, http.MethodPut, "/me/tracks", query, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved '%s' to library!", state.Item.Name), nil
}

// ------------------------------------------------------------------------------------------------------
// command wraps a state-changing player call in the retry executor.
func (c *SpotifyClient) command(ctx context.Context, method, path string, query url.Values, body any) error {
	return retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		_, err := c.doRequest(ctx, method, path, query, body)
		return err
	})
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) record(track Track) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(track); err != nil {
		c.logger.Warn("Failed to record play",
			zap.String("track", track.Name),
			zap.Error(err),
		)
	}
}
