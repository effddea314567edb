// Package client is the exesctl side of the food-network API: a generic
// request helper that decodes the response envelope, plus typed calls for the
// auth and machine-data endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// UpstreamError reports a failed API call: transport failure, a non-2xx
// status, or an envelope with success=false. Status is zero for transport
// failures.
type UpstreamError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Unauthorized reports whether the API rejected the caller's credentials.
func (e *UpstreamError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// Client talks to the food-network API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do performs one request and decodes the envelope's data into T. token is
// sent as a bearer credential when non-empty; body is JSON-encoded when
// non-nil. Failures are never retried.
func Do[T any](ctx context.Context, c *Client, method, path, token string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &UpstreamError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api call")

	var env envelope[T]
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return zero, &UpstreamError{Method: method, Path: path, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return zero, &UpstreamError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request was not successful"
		}
		return zero, &UpstreamError{Method: method, Path: path, Status: resp.StatusCode, Message: msg}
	}
	return env.Data, nil
}

func Get[T any](ctx context.Context, c *Client, path, token string) (T, error) {
	return Do[T](ctx, c, http.MethodGet, path, token, nil)
}

func Post[T any](ctx context.Context, c *Client, path, token string, body any) (T, error) {
	return Do[T](ctx, c, http.MethodPost, path, token, body)
}
