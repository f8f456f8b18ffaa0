package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/auth"
	"github.com/bargainbaas/bargain-cli/internal/demo"
)

const (
	testEmail    = "ops@shop.test"
	testPassword = "correct-horse"
)

// setupDemo starts a seeded demo backend and points the CLI at it through
// the environment. HOME is moved to a temp dir so the session file and logs
// stay out of the real home directory.
func setupDemo(t *testing.T) *demo.Backend {
	t.Helper()
	b := demo.NewBackend(demo.Options{BcryptCost: bcrypt.MinCost})
	_, err := b.AddTenant(testEmail, testPassword, "Ops")
	require.NoError(t, err)
	b.SetAnalytics(testEmail, demo.SampleAnalytics(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)))

	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	t.Setenv("BARGAIN_API_AUTH_URL", srv.URL+demo.AuthPrefix)
	t.Setenv("BARGAIN_API_TENANT_URL", srv.URL+demo.TenantPrefix)
	return b
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()
	out, err := run(t, testPassword+"\n", "login", "--email", testEmail, "--password-stdin")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as")
}

func TestLoginAndWhoami(t *testing.T) {
	setupDemo(t)
	login(t)

	out, err := run(t, "", "whoami", "-o", "json")
	require.NoError(t, err)

	var id map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &id))
	assert.Equal(t, testEmail, id["email"])
	assert.Equal(t, true, id["authenticated"])
	assert.NotContains(t, out, "jwt_token")
}

func TestLoginWrongPassword(t *testing.T) {
	setupDemo(t)

	_, err := run(t, "wrong\n", "login", "--email", testEmail, "--password-stdin")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out, err := run(t, "", "whoami", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)
}

func TestLoginRequiresEmailWithoutTerminal(t *testing.T) {
	setupDemo(t)
	_, err := run(t, testPassword+"\n", "login", "--password-stdin")
	assert.ErrorContains(t, err, "--email is required")
}

func TestSignupThenAnalytics(t *testing.T) {
	setupDemo(t)

	out, err := run(t, "another-horse\n", "signup", "--email", "new@shop.test", "--name", "New Shop", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "New Shop <new@shop.test>")

	// A fresh tenant has no analytics yet: zeros, no series.
	out, err = run(t, "", "analytics", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"loaded": true`)
}

func TestAnalyticsJSON(t *testing.T) {
	setupDemo(t)
	login(t)

	out, err := run(t, "", "analytics", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Loaded   bool               `json:"loaded"`
		Counters map[string]float64 `json:"counters"`
		Series   []map[string]any   `json:"series"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.True(t, view.Loaded)
	assert.Equal(t, 380.0, view.Counters["total_negotiations"])
	assert.Len(t, view.Series, 7)
}

func TestAnalyticsWithoutLoginPrintsPlaceholders(t *testing.T) {
	b := setupDemo(t)

	out, err := run(t, "", "analytics", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"loaded": false`)
	assert.Zero(t, b.RequestCount())
}

func TestConfigSetAndGet(t *testing.T) {
	b := setupDemo(t)
	login(t)

	out, err := run(t, "", "config", "set", "https://shop.test/policy")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved.")
	assert.Equal(t, "https://shop.test/policy", b.PolicyEndpoint(testEmail))

	out, err = run(t, "", "config", "get", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"client_policy_api_endpoint": "https://shop.test/policy"`)
	assert.Contains(t, out, `"client_api_key": "sk_bargain_***`)
}

func TestConfigSetRejectsInvalidURL(t *testing.T) {
	b := setupDemo(t)
	login(t)
	before := b.RequestCount()

	_, err := run(t, "", "config", "set", "ftp://shop.test/policy")
	assert.ErrorContains(t, err, "http:// or https://")
	// Only the initial load went out.
	assert.Equal(t, before+1, b.RequestCount())
}

func TestRevokedTokenClearsSession(t *testing.T) {
	b := setupDemo(t)
	login(t)
	b.RevokeTokens()

	_, err := run(t, "", "config", "get", "-o", "json")
	require.Error(t, err)
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.True(t, apiErr.SessionCleared())

	out, err := run(t, "", "whoami", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)
}

func TestRevokedTokenDuringConfigSetClearsSession(t *testing.T) {
	b := setupDemo(t)
	login(t)
	b.RevokeTokens()

	_, err := run(t, "", "config", "set", "https://shop.test/api/bargain/policy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load configuration")
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.True(t, apiErr.SessionCleared())
	assert.Equal(t, err.Error(), userMessage(err))

	out, err := run(t, "", "whoami", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)
}

func TestLogout(t *testing.T) {
	setupDemo(t)
	login(t)

	out, err := run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Contains(t, out, "bargain login")

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestInvalidOutputFormat(t *testing.T) {
	setupDemo(t)
	_, err := run(t, "", "whoami", "-o", "xml")
	assert.ErrorContains(t, err, "output.format")
}

func TestNextStep(t *testing.T) {
	assert.Contains(t, nextStep(auth.Navigation{Target: auth.RouteDashboard}), "bargain dashboard")
	assert.Contains(t, nextStep(auth.Navigation{Target: auth.RouteLogin}), "bargain login")
	assert.Empty(t, nextStep(auth.Navigation{}))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bargain version "+Version)
}
