package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperror "github.com/Siddiha/Amp/internal/error"
)

const anthropicVersion = "2023-06-01"

// ------------------------------------------------------------------------------------------------------
// doRequest posts the request body and maps non-200 statuses onto the
// application error taxonomy, so the retry classifier can tell a rate limit
// from a malformed request. The caller closes the body after reading.
func (c *ClaudeClient) doRequest(ctx context.Context, reqBody any) (*http.Response, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperror.NewInternalError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperror.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewLLMError("failed to reach model API", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		detail := fmt.Errorf("status %d, body: %s", resp.StatusCode, string(bodyBytes))

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, apperror.NewRateLimitError("model API rate limited", detail)
		case resp.StatusCode == http.StatusRequestTimeout:
			return nil, apperror.NewTimeoutError("model API timed out", detail)
		case resp.StatusCode >= 500:
			return nil, apperror.NewLLMError("model API unavailable", detail)
		default:
			return nil, apperror.NewValidationError("model API rejected request", detail)
		}
	}

	return resp, nil
}
