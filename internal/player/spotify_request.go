package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperror "github.com/Siddiha/Amp/internal/error"
)

// ------------------------------------------------------------------------------------------------------
// doRequest sends one authenticated API call and returns the response body
// (nil for 204). Statuses are mapped onto the application error taxonomy so
// the retry classifier sees rate limits and outages as transient and player
// errors as final.
func (c *SpotifyClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, apperror.NewInternalError("failed to marshal request", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperror.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewUpstreamError("failed to reach Spotify API", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstreamError("failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return respBody, nil
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized:
		// Token invalidated server-side; drop it so the next call refreshes.
		c.mu.Lock()
		c.accessToken = ""
		c.mu.Unlock()
		return nil, apperror.NewUpstreamError("Spotify rejected access token", apperror.ErrTokenExpired)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperror.NewRateLimitError("Spotify API rate limited", statusDetail(resp.StatusCode, respBody))
	case resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/me/player"):
		return nil, apperror.NewPlaybackError("No active device. Open Spotify app first!", apperror.ErrNoActiveDevice)
	case resp.StatusCode >= 500:
		return nil, apperror.NewUpstreamError("Spotify API unavailable", statusDetail(resp.StatusCode, respBody))
	default:
		return nil, apperror.NewPlaybackError("Spotify API request failed", statusDetail(resp.StatusCode, respBody))
	}
}

// ------------------------------------------------------------------------------------------------------
func statusDetail(status int, body []byte) error {
	return fmt.Errorf("status %d, body: %s", status, string(body))
}

// ------------------------------------------------------------------------------------------------------
// ensureToken returns a valid access token, refreshing it through the
// refresh-token grant when missing or close to expiry.
func (c *SpotifyClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-30*time.Second)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.refreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperror.NewInternalError("failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.NewUpstreamError("failed to reach Spotify auth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", apperror.NewPlaybackError("Spotify token refresh failed", statusDetail(resp.StatusCode, bodyBytes))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", apperror.NewUpstreamError("failed to decode token response", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	c.logger.Debug("Refreshed Spotify access token")
	return c.accessToken, nil
}
