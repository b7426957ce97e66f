// Package adminapi is a typed HTTP client for the assistant backend's admin
// surface: intent mappings, query logs, few-shot examples, and the vector
// document store. The backend owns all state; every call here is a single
// request/response round trip with no client-side caching.
package adminapi

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request. List and mutation calls are cheap
// backend queries; anything slower than this is treated as a failure rather
// than leaving a screen spinning forever.
const DefaultTimeout = 30 * time.Second

type Client struct {
	target string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client against the backend base URL (scheme + host +
// port, no trailing slash required). A zero timeout falls back to
// DefaultTimeout; a nil logger disables debug logging.
func NewClient(target string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		target: strings.TrimRight(target, "/"),
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Target returns the configured backend base URL.
func (c *Client) Target() string {
	return c.target
}

// APIError is a non-2xx backend response. Detail carries the backend's own
// message when the body had one; the console shows Error() verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// errorBody is the FastAPI-style error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// do executes one round trip. A non-nil body is sent as JSON; a non-nil out
// receives the decoded response body. Non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.target + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, requestID)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) decodeError(resp *http.Response, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	c.logger.Debug("backend error response",
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.ByteString("body", raw),
	)

	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: parsed.Detail}
	}

	return &APIError{StatusCode: resp.StatusCode}
}
