// Package api is the authenticated request layer for the BargainBaaS tenant
// API. Every call either returns the decoded JSON body or an *Error whose
// Kind tells the caller exactly what went wrong:
//
//	no token stored        → KindUnauthorized (nothing is sent)
//	no response            → KindNetwork
//	non-2xx response       → KindHTTP (status + backend detail)
//	2xx with invalid JSON  → KindParse
//
// Requests are never retried. Cancellation is the caller's context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bargainbaas/bargain-cli/internal/session"
)

// CredentialSource provides the current credential. *session.Store satisfies it.
type CredentialSource interface {
	Get() session.Credential
}

// credentialClearer is implemented by *session.Store.
type credentialClearer interface {
	Clear(ctx context.Context) error
}

// Client performs JSON requests against one base URL.
type Client struct {
	baseURL             string
	creds               CredentialSource
	clearOnUnauthorized bool
	httpClient          *http.Client
	userAgent           string

	// Debug callback (optional)
	debugFunc func(format string, args ...any)
}

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "https://host/api/v1/tenant" (required)
	BaseURL string

	// Credentials supplies the bearer token for Request. Anonymous calls
	// don't need it.
	Credentials CredentialSource

	// ClearOnUnauthorized drops the stored credential when an authenticated
	// request is answered with 401. Credentials must also implement
	// Clear(ctx) for this to take effect.
	ClearOnUnauthorized bool

	// HTTPClient overrides the transport. The default has no timeout;
	// deadlines come from the request context.
	HTTPClient *http.Client

	// UserAgent is sent on every request when set
	UserAgent string

	// DebugFunc is an optional callback for debug logging
	DebugFunc func(format string, args ...any)
}

// NewClient creates a new API client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		creds:               cfg.Credentials,
		clearOnUnauthorized: cfg.ClearOnUnauthorized,
		httpClient:          httpClient,
		userAgent:           cfg.UserAgent,
		debugFunc:           cfg.DebugFunc,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// debug logs a message if debug function is configured
func (c *Client) debug(format string, args ...any) {
	if c.debugFunc != nil {
		c.debugFunc(format, args...)
	}
}

// Request performs an authenticated call. If no token is stored it returns
// a KindUnauthorized error without touching the network.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var cred session.Credential
	if c.creds != nil {
		cred = c.creds.Get()
	}
	if !cred.Authenticated() {
		c.debug("authentication error: no JWT token found for %s %s", method, endpoint)
		return nil, &Error{Kind: KindUnauthorized}
	}

	raw, err := c.do(ctx, method, endpoint, body, cred.Token)
	if err != nil {
		c.maybeClearSession(ctx, err)
	}
	return raw, err
}

// Anonymous performs a call without an Authorization header, for the login
// and registration endpoints.
func (c *Client) Anonymous(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, method, endpoint, body, "")
}

// RequestJSON is Request followed by decoding into out. A body that doesn't
// fit out is reported as KindParse.
func (c *Client) RequestJSON(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindParse, Err: fmt.Errorf("failed to decode %s response: %w", endpoint, err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, token string) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var reqBody io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodHead {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
		if token == "" {
			// Anonymous calls are login and registration; their bodies carry the password.
			c.debug("request: %s %s - body: (%d bytes, not logged)", method, url, len(jsonData))
		} else {
			c.debug("request: %s %s - body: %s", method, url, string(jsonData))
		}
	} else {
		c.debug("request: %s %s", method, url)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.debug("network request failed: %v", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.debug("reading response body failed: %v", err)
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if token == "" && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		c.debug("response: %d - (%d bytes, not logged)", resp.StatusCode, len(respBody))
	} else {
		c.debug("response: %d - %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := httpError(resp, respBody)
		c.debug("%s", apiErr.Error())
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(respBody) {
		return nil, &Error{Kind: KindParse, Body: respBody, Err: errors.New("response body is not valid JSON")}
	}
	return json.RawMessage(respBody), nil
}

// httpError builds a KindHTTP error, preferring the backend's `detail`, then
// `error`, then the compact JSON body, then the status text.
func httpError(resp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Kind:   KindHTTP,
		Status: resp.StatusCode,
		Detail: statusText(resp),
		Body:   body,
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if s, ok := payload["detail"].(string); ok && s != "" {
		apiErr.Detail = s
		apiErr.FromBody = true
		return apiErr
	}
	if s, ok := payload["error"].(string); ok && s != "" {
		apiErr.Detail = s
		apiErr.FromBody = true
		return apiErr
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err == nil {
		apiErr.Detail = compact.String()
	}
	return apiErr
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func (c *Client) maybeClearSession(ctx context.Context, err error) {
	if !c.clearOnUnauthorized {
		return
	}
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != KindHTTP || apiErr.Status != http.StatusUnauthorized {
		return
	}
	clearer, ok := c.creds.(credentialClearer)
	if !ok {
		return
	}
	if clearErr := clearer.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		c.debug("failed to clear rejected credential: %v", clearErr)
		return
	}
	c.debug("server rejected the stored token; credential cleared")
	apiErr.sessionCleared = true
}
