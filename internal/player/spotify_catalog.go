package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Siddiha/Amp/internal/cache"
	"github.com/Siddiha/Amp/internal/retry"
)

// ------------------------------------------------------------------------------------------------------
// Search returns up to five matching tracks without touching playback.
// Results are memoized; the retry executor sits outside the cache lookup so
// a hit never spends retry budget.
func (c *SpotifyClient) Search(ctx context.Context, query string) ([]Track, error) {
	key := cache.Key("spotify.search", []any{query}, map[string]any{"limit": searchLimit})

	var tracks []Track
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		var err error
		tracks, err = cache.Memoize(c.cache, key, c.cacheTTL, func() ([]Track, error) {
			return c.fetchSearch(ctx, query, searchLimit)
		})
		return err
	})
	return tracks, err
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) fetchSearch(ctx context.Context, query string, limit int) ([]Track, error) {
	if c.trackCache != nil {
		if tracks, ok := c.trackCache.GetTracks(ctx, "search", query); ok {
			return tracks, nil
		}
	}

	params := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/search", params, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tracks struct {
			Items []apiTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	tracks := make([]Track, len(result.Tracks.Items))
	for i, item := range result.Tracks.Items {
		tracks[i] = item.toTrack()
	}

	if c.trackCache != nil {
		c.trackCache.SetTracks(ctx, "search", query, tracks)
	}
	return tracks, nil
}

// ------------------------------------------------------------------------------------------------------
// Recommendations returns mood-conditioned suggestions seeded from the
// user's recent top tracks. An empty mood falls back to pure taste seeding.
func (c *SpotifyClient) Recommendations(ctx context.Context, mood string, limit int) ([]Track, error) {
	key := cache.Key("spotify.recommendations", nil, map[string]any{"mood": mood, "limit": limit})

	var tracks []Track
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		var err error
		tracks, err = cache.Memoize(c.cache, key, c.cacheTTL, func() ([]Track, error) {
			return c.fetchRecommendations(ctx, mood, limit)
		})
		return err
	})
	return tracks, err
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) fetchRecommendations(ctx context.Context, mood string, limit int) ([]Track, error) {
	params := url.Values{"limit": {strconv.Itoa(limit)}}

	if seeds, err := c.topTrackSeeds(ctx); err == nil && len(seeds) > 0 {
		params.Set("seed_tracks", strings.Join(seeds, ","))
	}

	for name, value := range MoodFeatures(mood) {
		if strings.HasPrefix(name, "target_") {
			params.Set(name, strconv.FormatFloat(value, 'g', -1, 64))
		}
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/recommendations", params, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tracks []apiTrack `json:"tracks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	tracks := make([]Track, len(result.Tracks))
	for i, item := range result.Tracks {
		tracks[i] = item.toTrack()
	}
	return tracks, nil
}

// ------------------------------------------------------------------------------------------------------
// topTrackSeeds returns up to two recent top-track IDs to seed
// recommendations with the user's taste.
func (c *SpotifyClient) topTrackSeeds(ctx context.Context) ([]string, error) {
	params := url.Values{
		"limit":      {"5"},
		"time_range": {"short_term"},
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/me/top/tracks", params, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []apiTrack `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	seeds := make([]string, 0, 2)
	for _, item := range result.Items {
		if item.ID == "" {
			continue
		}
		seeds = append(seeds, item.ID)
		if len(seeds) == 2 {
			break
		}
	}
	return seeds, nil
}

// ------------------------------------------------------------------------------------------------------
// CreatePlaylist builds a playlist from recommendations and fills it.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, name, mood string, count int) (string, error) {
	tracks, err := c.Recommendations(ctx, mood, count)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "Couldn't generate tracks", nil
	}

	userID, err := c.currentUserID(ctx)
	if err != nil {
		return "", err
	}

	vibe := mood
	if vibe == "" {
		vibe = "personalized"
	}
	createBody := map[string]any{
		"name":        name,
		"description": fmt.Sprintf("Created by AMP - %s vibes", vibe),
		"public":      false,
	}

	var playlistID string
	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, err := c.doRequest(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, createBody)
		if err != nil {
			return err
		}
		var created struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			return fmt.Errorf("failed to decode playlist response: %w", err)
		}
		playlistID = created.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	addBody := map[string]any{"uris": uris}
	if err := c.command(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", nil, addBody); err != nil {
		return "", err
	}

	return fmt.Sprintf("Created '%s' with %d tracks!", name, len(tracks)), nil
}

// ------------------------------------------------------------------------------------------------------
func (c *SpotifyClient) currentUserID(ctx context.Context) (string, error) {
	var userID string
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, err := c.doRequest(ctx, http.MethodGet, "/me", nil, nil)
		if err != nil {
			return err
		}
		var user struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &user); err != nil {
			return fmt.Errorf("failed to decode user: %w", err)
		}
		userID = user.ID
		return nil
	})
	return userID, err
}
