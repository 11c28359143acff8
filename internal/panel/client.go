// Package panel is a typed client for a game-server panel's application
// API. A Client is constructed per operation from one account's decrypted
// credentials and holds no state beyond them; it is never shared between
// accounts or cached across requests.
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiBasePath = "/api/application"

	defaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read. Panel
	// listings are small; anything larger is a misbehaving endpoint.
	maxBodySize = 10 * 1024 * 1024
)

// AuthError means the API key was rejected outright (HTTP 401).
type AuthError struct {
	Message string
}

func (e AuthError) Error() string { return "panel: invalid API key: " + e.Message }

// PermissionError means the key is valid but lacks rights for the
// requested operation (HTTP 403).
type PermissionError struct {
	Message string
}

func (e PermissionError) Error() string { return "panel: insufficient permissions: " + e.Message }

// NotFoundError means the requested resource does not exist (HTTP 404).
// For lookups this is a normal, expected outcome; callers branch on it
// with errors.As rather than treating it as a fault.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string { return "panel: " + e.Resource + " not found" }

// TransportError covers network failures, 5xx responses, unexpected 4xx
// responses, and malformed bodies. Never retried here; the caller decides
// whether to suggest a retry.
type TransportError struct {
	Status  int // 0 when the request never produced a response
	Message string
}

func (e TransportError) Error() string {
	if e.Status == 0 {
		return "panel: transport failure: " + e.Message
	}
	return fmt.Sprintf("panel: API error %d: %s", e.Status, e.Message)
}

// IsNotFound returns true when err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// Client accesses one panel's application API with one API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests (primarily
// for tests and custom timeouts).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// New builds a client for the panel at panelURL using apiKey as the bearer
// token. The URL must already be validated; New only normalises it.
func New(panelURL, apiKey string, opts ...Option) (*Client, error) {
	panelURL = strings.TrimRight(strings.TrimSpace(panelURL), "/")
	if panelURL == "" {
		return nil, fmt.Errorf("panel: panel URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("panel: API key is required")
	}

	c := &Client{
		baseURL: panelURL + apiBasePath,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TestConnection reports whether a lightweight authenticated read against
// the panel succeeds. It never returns an error: any failure, from bad
// credentials to an unreachable host, is simply false.
func (c *Client) TestConnection(ctx context.Context) bool {
	var out listEnvelope
	err := c.request(ctx, http.MethodGet, "/users", nil, nil, &out)
	return err == nil
}

// listEnvelope is the wire shape of a collection response.
type listEnvelope struct {
	Data []struct {
		Attributes json.RawMessage `json:"attributes"`
	} `json:"data"`
}

// objectEnvelope is the wire shape of a single-object response.
type objectEnvelope struct {
	Data struct {
		Attributes json.RawMessage `json:"attributes"`
	} `json:"data"`
}

// request performs one API call. A non-nil out is filled from the response
// body; pass nil for endpoints whose body is irrelevant. Status codes map
// onto the error taxonomy: 401 AuthError, 403 PermissionError, 404
// NotFoundError, any other >= 400 TransportError carrying the body text.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	status, raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := mapStatus(status, raw); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return TransportError{Status: status, Message: "malformed response body: " + err.Error()}
	}
	return nil
}

// do issues the HTTP request and returns the raw status and body. Only
// request construction and network failures produce an error here; status
// interpretation is the caller's concern.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, TransportError{Message: "encode request body: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, TransportError{Message: "build request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, TransportError{Status: resp.StatusCode, Message: "read response body: " + err.Error()}
	}
	return resp.StatusCode, raw, nil
}

func mapStatus(status int, body []byte) error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized:
		return AuthError{Message: "the panel rejected the API key"}
	case status == http.StatusForbidden:
		return PermissionError{Message: "the API key lacks rights for this operation"}
	case status == http.StatusNotFound:
		return NotFoundError{Resource: "resource"}
	default:
		return TransportError{Status: status, Message: bodyText(body)}
	}
}

// bodyText extracts a short human-readable message from an error body.
func bodyText(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "no response body"
	}
	const maxLen = 512
	if len(text) > maxLen {
		text = text[:maxLen] + "…"
	}
	return text
}
