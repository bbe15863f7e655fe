// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package client provides a Go client library for the cpanel API.
//
// cpanel discovers control-panel applets from descriptor files and groups
// them into categories. This client gives typed access to the registry it
// serves, lets callers force a rescan, and streams update notifications.
//
// # Getting Started
//
// Create a client pointing to your cpanel server:
//
//	c := client.New("http://localhost:8470")
//
// The client provides access to the API through sub-clients:
//
//	// Categories with their applets, in display order
//	cats, err := c.Apps.Categories(ctx)
//
//	// A single applet by plugin id
//	app, err := c.Apps.Get(ctx, "libcpdisplay.so")
//
//	// Force a rescan
//	result, err := c.Apps.Update(ctx)
//
// # Live Updates
//
// The server publishes "applist.updated" whenever the registry is rebuilt.
// Subscribe to receive them over a websocket:
//
//	sub, err := c.Events.Subscribe(ctx, "")
//	for ev := range sub.Events() {
//	    fmt.Println(ev.Type, ev.Payload["apps"])
//	}
//
// # API Versioning
//
// cpanel uses date-based API versioning sent via the Cpanel-Version header.
// By default the client uses the latest version; pin one for stability:
//
//	c := client.New("http://localhost:8470", client.WithVersion("2026-10-01"))
//
// # Error Handling
//
// API errors are returned as *APIError values with a code and message:
//
//	_, err := c.Apps.Get(ctx, "unknown.so")
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == client.CodeNotFound {
//	    // not installed
//	}
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a cpanel API client.
//
// The Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client

	// Apps provides access to the applet registry.
	Apps *AppClient

	// Events streams registry notifications.
	Events *EventClient
}

// Option configures a [Client].
type Option func(*Client)

// New creates a new cpanel API client with the given base URL and options.
//
// The baseURL should be the root URL of the cpanel server (e.g.,
// "http://localhost:8470"). Any trailing slash is removed.
//
// By default, the client uses the latest API version ([LatestVersion]) and
// a 30-second HTTP timeout.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		version: LatestVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Apps = &AppClient{c: c}
	c.Events = &EventClient{c: c}

	return c
}

// WithVersion sets the API version to use for all requests.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// WithHTTPClient sets a custom HTTP client for making requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout for all requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// Version returns the API version being used.
func (c *Client) Version() string {
	return c.version
}

// BaseURL returns the base URL of the API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Meta is the metadata attached to every response.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`

	// Generation identifies the registry rebuild the data was read from.
	// Zero when the response is not tied to a snapshot.
	Generation uint64 `json:"generation"`
}

// apiResponse is the standard API response envelope.
type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
	Meta  Meta            `json:"meta"`
}

// Error codes returned by the server.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeBadRequest    = "BAD_REQUEST"
	CodeInternalError = "INTERNAL_ERROR"
)

// APIError represents an error response from the cpanel API.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`

	// Code is a machine-readable error code (e.g., "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`

	// Details contains additional error information, if available.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// get performs a GET request to the given path.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, Meta, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// post performs a POST request to the given path with no body.
func (c *Client) post(ctx context.Context, path string) (json.RawMessage, Meta, error) {
	return c.do(ctx, http.MethodPost, path, nil)
}

// do performs an HTTP request and parses the response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, Meta, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(VersionHeader, c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return parseResponse(resp)
}

// parseResponse reads and parses an API response.
func parseResponse(resp *http.Response) (json.RawMessage, Meta, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, Meta{}, &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			}
		}
		return respBody, Meta{}, nil
	}

	if apiResp.Error != nil {
		apiResp.Error.StatusCode = resp.StatusCode
		return nil, apiResp.Meta, apiResp.Error
	}
	if resp.StatusCode >= 400 {
		return nil, apiResp.Meta, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
		}
	}

	return apiResp.Data, apiResp.Meta, nil
}
