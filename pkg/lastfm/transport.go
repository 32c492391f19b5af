package lastfm

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// apiError is the JSON error envelope returned by the API on failure.
type apiError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

// call makes an HTTP request to the Last.fm API with retry logic.
//
// It handles:
// - Request construction (GET query or POST form body)
// - Signature calculation for signed requests
// - JSON envelope parsing and API error detection
// - Retry with exponential backoff for transient failures
// - Context cancellation
//
// The format=json parameter is appended after signing; it is excluded from
// the signature by the protocol.
func (c *Client) call(ctx context.Context, httpMethod, method string, params map[string]string, signed bool) ([]byte, error) {
	reqParams := make(map[string]string, len(params)+2)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["method"] = method
	reqParams["api_key"] = c.apiKey

	values := url.Values{}
	for k, v := range reqParams {
		values.Set(k, v)
	}
	if signed {
		values.Set("api_sig", calculateSignature(reqParams, c.apiSecret))
	}
	values.Set("format", "json")

	var lastErr error
	backoff := 1 * time.Second
	maxRetries := 3

	for i := 0; i < maxRetries; i++ {
		c.logDebugf("lastfm: calling %s (attempt %d/%d)", method, i+1, maxRetries)

		req, err := c.newRequest(ctx, httpMethod, values)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if shouldRetryNetworkError(err) && i < maxRetries-1 {
				c.logDebugf("lastfm: network error, retrying: %v", err)
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, resp.Status)
			if i < maxRetries-1 {
				c.logDebugf("lastfm: server error, retrying: %v", lastErr)
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, lastErr
		}

		// The API signals failures in the JSON envelope, usually alongside
		// a 4xx status. Check the envelope before the status code so the
		// structured error wins.
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
			lastfmErr := &Error{
				Code:    apiErr.Code,
				Message: apiErr.Message,
			}

			if lastfmErr.Temporary() && i < maxRetries-1 {
				c.logDebugf("lastfm: temporary error, retrying: %v", lastfmErr)
				lastErr = lastfmErr
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}

			return nil, lastfmErr
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		c.logDebugf("lastfm: %s succeeded", method)
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// newRequest builds the HTTP request for a single attempt. GET requests
// carry the parameters in the query string, POST requests in a
// form-encoded body.
func (c *Client) newRequest(ctx context.Context, httpMethod string, values url.Values) (*http.Request, error) {
	var req *http.Request
	var err error

	switch httpMethod {
	case http.MethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"?"+values.Encode(), nil)
	default:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

const userAgent = "scrobblemend/1.0"

// shouldRetryNetworkError checks if a network error is retryable.
func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	if urlErr, ok := err.(*url.Error); ok {
		if _, ok := urlErr.Err.(net.Error); ok {
			return true
		}
	}

	return false
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(duration):
		return true
	}
}

// nextBackoff doubles the backoff duration, capped at 30 seconds.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 30*time.Second {
		return 30 * time.Second
	}
	return next
}
