// Package rescuetime submits highlights to the RescueTime highlights API.
package rescuetime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"shortlog/internal/highlight"
)

const (
	// DefaultURL is the highlights submission endpoint.
	DefaultURL = "https://www.rescuetime.com/anapi/highlights_post"

	// DefaultTimeout bounds each request when the config sets none.
	DefaultTimeout = 60 * time.Second

	// maxErrorBody bounds how much of a failed response is kept on HTTPError.
	maxErrorBody = 4 << 10
)

// ErrMalformedResponse is matched by every ResponseError.
var ErrMalformedResponse = errors.New("malformed highlights API response")

// Config configures a Client. Zero fields fall back to the defaults.
type Config struct {
	URL     string
	Source  string // optional highlight label shown by RescueTime
	Timeout time.Duration
}

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string // request URL with the API key redacted
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("highlights API returned %s for url: %s", e.Status, e.URL)
}

// ResponseError is returned when a successful response cannot be decoded.
type ResponseError struct {
	Body string
	Err  error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid highlights API response: %v", e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Client posts highlights one request at a time.
type Client struct {
	config Config
	client *http.Client
}

// NewClient returns a Client, filling in the default URL and timeout.
func NewClient(config Config) *Client {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Submit posts a single highlight and returns the service acknowledgement.
func (c *Client) Submit(ctx context.Context, h highlight.Highlight, apiKey string) (*highlight.APIResponse, error) {
	endpoint, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid highlights URL: %w", err)
	}

	params := endpoint.Query()
	params.Set("key", apiKey)
	params.Set("highlight_date", h.Day())
	params.Set("description", h.Description.String())
	if c.config.Source != "" {
		params.Set("source", c.config.Source)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("highlights API request failed: %w", redactURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        redact(endpoint),
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read highlights API response: %w", err)
	}

	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ResponseError{Body: string(body), Err: err}
	}
	if payload.Message == nil {
		return nil, &ResponseError{Body: string(body), Err: errors.New(`missing "message" field`)}
	}

	return &highlight.APIResponse{Message: *payload.Message}, nil
}

// redact returns u as a string with the key parameter masked.
func redact(u *url.URL) string {
	masked := *u
	params := masked.Query()
	if params.Has("key") {
		params.Set("key", "REDACTED")
	}
	masked.RawQuery = params.Encode()
	return masked.String()
}

// redactURLError masks the key inside the URL that net/http embeds in transport errors.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return err
	}

	return &url.Error{Op: urlErr.Op, URL: redact(u), Err: urlErr.Err}
}
