// Package remote is the HTTP client for the marketplace backend. The backend
// owns all persistence and business rules; this package only moves JSON and
// maps failure statuses onto the gateway's sentinel errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	inbox_errors "unistay-inbox/pkg/errors"
	"unistay-inbox/pkg/logger"
)

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, l *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

// do performs one request with the user's bearer token and decodes the
// response envelope into out (when out is non-nil).
func (c *Client) do(ctx context.Context, token, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", inbox_errors.ErrInvalidInput, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", inbox_errors.ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", inbox_errors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", inbox_errors.ErrRemoteUnavailable, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%w: malformed response", inbox_errors.ErrRemoteRejected)
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return statusError(resp.StatusCode, env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: malformed response data", inbox_errors.ErrRemoteRejected)
		}
	}
	return nil
}

func statusError(status int, env envelope) error {
	var base error
	switch {
	case status == http.StatusUnauthorized:
		base = inbox_errors.ErrUnauthorized
	case status == http.StatusForbidden:
		base = inbox_errors.ErrForbidden
	case status == http.StatusNotFound:
		base = inbox_errors.ErrNotFound
	case status == http.StatusBadRequest:
		base = inbox_errors.ErrInvalidInput
	case status >= 500:
		base = inbox_errors.ErrRemoteUnavailable
	default:
		base = inbox_errors.ErrRemoteRejected
	}
	if env.Error != "" {
		return fmt.Errorf("%w: %s", base, env.Error)
	}
	return fmt.Errorf("%w: status %d", base, status)
}
