package demo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*Backend, *httptest.Server) {
	t.Helper()
	b := NewBackend(Options{BcryptCost: bcrypt.MinCost})
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, url, token string, out any) int {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestRegisterThenLogin(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+AuthPrefix+"/auth/register", "", map[string]string{
		"email": "ops@shop.test", "password": "correct-horse", "name": "Ops",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+AuthPrefix+"/auth/login", "", map[string]string{
		"email": "ops@shop.test", "password": "correct-horse",
	})
	defer resp.Body.Close()
	var tok tokenResponse
	json.NewDecoder(resp.Body).Decode(&tok)
	if resp.StatusCode != http.StatusOK || tok.AccessToken == "" {
		t.Fatalf("login status = %d, token = %q", resp.StatusCode, tok.AccessToken)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	b, srv := newTestServer(t)
	if _, err := b.AddTenant("ops@shop.test", "correct-horse", "Ops"); err != nil {
		t.Fatalf("AddTenant: %v", err)
	}

	resp := postJSON(t, srv.URL+AuthPrefix+"/auth/login", "", map[string]string{
		"email": "ops@shop.test", "password": "wrong",
	})
	defer resp.Body.Close()
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if body["detail"] != "Invalid credentials" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestRegisterShortPasswordReturnsListDetail(t *testing.T) {
	_, srv := newTestServer(t)
	resp := postJSON(t, srv.URL+AuthPrefix+"/auth/register", "", map[string]string{
		"email": "ops@shop.test", "password": "short", "name": "Ops",
	})
	defer resp.Body.Close()

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if _, ok := body["detail"].([]any); !ok {
		t.Errorf("detail should be a list, got %T", body["detail"])
	}
}

func TestConfigurationRoundTrip(t *testing.T) {
	b, srv := newTestServer(t)
	token, err := b.AddTenant("ops@shop.test", "correct-horse", "Ops")
	if err != nil {
		t.Fatalf("AddTenant: %v", err)
	}

	resp := postJSON(t, srv.URL+TenantPrefix+"/configuration", token, map[string]string{
		"client_policy_api_endpoint": "https://shop.test/policy",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	var cfg configurationPayload
	if status := getJSON(t, srv.URL+TenantPrefix+"/configuration", token, &cfg); status != http.StatusOK {
		t.Fatalf("GET status = %d", status)
	}
	if cfg.PolicyEndpoint != "https://shop.test/policy" {
		t.Errorf("policy endpoint = %q", cfg.PolicyEndpoint)
	}
	if cfg.APIKey == "" {
		t.Error("API key should be issued on tenant creation")
	}
	if got := b.PolicyEndpoint("OPS@shop.test"); got != "https://shop.test/policy" {
		t.Errorf("PolicyEndpoint() = %q", got)
	}
}

func TestTenantRoutesRequireToken(t *testing.T) {
	b, srv := newTestServer(t)
	if status := getJSON(t, srv.URL+TenantPrefix+"/analytics", "", nil); status != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", status)
	}

	token, _ := b.AddTenant("ops@shop.test", "correct-horse", "Ops")
	b.RevokeTokens()
	if status := getJSON(t, srv.URL+TenantPrefix+"/analytics", token, nil); status != http.StatusUnauthorized {
		t.Errorf("revoked token: status = %d, want 401", status)
	}
}

func TestSampleAnalytics(t *testing.T) {
	end := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	a := SampleAnalytics(end)
	if len(a.ChartData) != 7 {
		t.Fatalf("chart points = %d, want 7", len(a.ChartData))
	}
	if a.ChartData[6].Date != "2026-03-07" || a.ChartData[0].Date != "2026-03-01" {
		t.Errorf("unexpected date range %s..%s", a.ChartData[0].Date, a.ChartData[6].Date)
	}
	if a.TotalNegotiations != 380 || a.TotalDealsClosed != 128 {
		t.Errorf("totals = %d/%d", a.TotalNegotiations, a.TotalDealsClosed)
	}
}

func TestRequestCount(t *testing.T) {
	b, srv := newTestServer(t)
	getJSON(t, srv.URL+"/health", "", nil)
	getJSON(t, srv.URL+"/nope", "", nil)
	if got := b.RequestCount(); got != 2 {
		t.Errorf("RequestCount = %d, want 2", got)
	}
}
