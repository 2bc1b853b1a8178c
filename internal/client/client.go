// Package client talks to a docsite server: generation, library and the
// raw chat stream. It validates input before any request and validates
// responses at the boundary.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"docsite/internal/docgen"
	"docsite/internal/domain"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL          string
	token            string
	httpClient       *http.Client
	logger           *slog.Logger
	progressInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithProgressInterval sets how often GenerateWithProgress reports.
func WithProgressInterval(d time.Duration) Option {
	return func(c *Client) { c.progressInterval = d }
}

// New creates a client for the server at baseURL, authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		token:            token,
		httpClient:       &http.Client{},
		logger:           slog.Default(),
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and returns the body of a 2xx response. Other statuses
// become typed errors.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(req.Context(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return domain.WrapUpstreamError(0, err.Error(), err)
}

// statusError maps a failed response. {error} bodies come from the
// generation and chat endpoints, problem+json {detail} from /api routes.
func statusError(status int, body []byte) error {
	message := docgen.ErrorMessage(body)
	if message == "" && gjson.ValidBytes(body) {
		message = gjson.GetBytes(body, "detail").String()
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		return &domain.ValidationError{Message: message}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.UnauthorizedError{Message: message}
	case http.StatusNotFound:
		return &domain.NotFoundError{Message: message}
	}
	return domain.NewUpstreamError(status, message)
}

func escapeID(id string) string {
	return url.PathEscape(id)
}
