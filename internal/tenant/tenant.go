// Package tenant wraps the tenant-dashboard endpoints of the BargainBaaS API.
package tenant

import (
	"context"
	"encoding/json"
	"net/http"
)

// Endpoint paths relative to the tenant API root.
const (
	PathConfiguration = "/configuration"
	PathAnalytics     = "/analytics"
)

// Requester performs authenticated calls. *api.Client satisfies it.
type Requester interface {
	Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error)
	RequestJSON(ctx context.Context, method, endpoint string, body, out any) error
}

// Configuration is the tenant's integration settings.
type Configuration struct {
	PolicyEndpoint string `json:"client_policy_api_endpoint" yaml:"client_policy_api_endpoint"`
	APIKey         string `json:"client_api_key,omitempty" yaml:"client_api_key,omitempty"`
}

// UpdateResponse is what POST /configuration returns.
type UpdateResponse struct {
	Message string `json:"message,omitempty"`
}

// Client exposes the typed tenant endpoints.
type Client struct {
	api Requester
}

// NewClient wraps an authenticated requester.
func NewClient(r Requester) *Client {
	return &Client{api: r}
}

// GetConfiguration fetches GET /configuration.
func (c *Client) GetConfiguration(ctx context.Context) (*Configuration, error) {
	var cfg Configuration
	if err := c.api.RequestJSON(ctx, http.MethodGet, PathConfiguration, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetPolicyEndpoint sends POST /configuration with only the policy endpoint.
func (c *Client) SetPolicyEndpoint(ctx context.Context, endpoint string) (*UpdateResponse, error) {
	raw, err := c.api.Request(ctx, http.MethodPost, PathConfiguration, map[string]string{
		"client_policy_api_endpoint": endpoint,
	})
	if err != nil {
		return nil, err
	}
	// Any valid JSON counts as success; a message is optional.
	var resp UpdateResponse
	_ = json.Unmarshal(raw, &resp)
	return &resp, nil
}

// Analytics fetches GET /analytics undecoded. The analytics package maps it
// defensively.
func (c *Client) Analytics(ctx context.Context) (json.RawMessage, error) {
	return c.api.Request(ctx, http.MethodGet, PathAnalytics, nil)
}
