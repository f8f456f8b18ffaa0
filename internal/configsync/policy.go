package configsync

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bargainbaas/bargain-cli/internal/tenant"
)

// PolicyEndpointSource reads and writes client_policy_api_endpoint.
type PolicyEndpointSource struct {
	Client *tenant.Client
}

// Load returns the stored policy endpoint.
func (s PolicyEndpointSource) Load(ctx context.Context) (string, error) {
	cfg, err := s.Client.GetConfiguration(ctx)
	if err != nil {
		return "", err
	}
	return cfg.PolicyEndpoint, nil
}

// Save writes a new policy endpoint.
func (s PolicyEndpointSource) Save(ctx context.Context, value string) error {
	_, err := s.Client.SetPolicyEndpoint(ctx, value)
	return err
}

// NewPolicyEndpointField wires a Field to the tenant configuration endpoint
// with URL validation.
func NewPolicyEndpointField(client *tenant.Client, debugFunc func(format string, args ...any)) *Field {
	return NewField(Config{
		Source:    PolicyEndpointSource{Client: client},
		Validate:  ValidateHTTPURL,
		DebugFunc: debugFunc,
	})
}

// ValidateHTTPURL accepts absolute http and https URLs with a host.
func ValidateHTTPURL(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("policy endpoint URL is required")
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL must include a host name")
	}
	return nil
}
