// Package demo provides an in-memory BargainBaaS backend that implements the
// tenant dashboard REST surface. It backs `bargain demo` for local trials and
// is mounted on httptest servers by the package tests.
package demo

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Route prefixes. A client configured with AuthPrefix as its auth URL and
// TenantPrefix as its tenant URL talks to this backend unchanged.
const (
	AuthPrefix   = "/api"
	TenantPrefix = "/api/v1/tenant"
)

// Analytics is the payload served by GET /analytics for one tenant.
type Analytics struct {
	TotalNegotiations int          `json:"total_negotiations"`
	TotalDealsClosed  int          `json:"total_deals_closed"`
	TotalVolume       float64      `json:"total_volume"`
	ConversionRate    float64      `json:"conversion_rate"`
	ChartData         []ChartPoint `json:"chart_data,omitempty"`
}

// ChartPoint is one day of the analytics series.
type ChartPoint struct {
	Date  string `json:"date"`
	Chats int    `json:"chats"`
	Deals int    `json:"deals"`
}

type tenant struct {
	email          string
	name           string
	passwordHash   []byte
	apiKey         string
	policyEndpoint string
	analytics      Analytics
}

// Backend holds tenants and issued tokens in memory.
type Backend struct {
	mu      sync.Mutex
	tenants map[string]*tenant
	tokens  map[string]string // token -> email
	cost    int

	requests atomic.Int64
}

// Options tune the backend.
type Options struct {
	// BcryptCost for password hashes (default: bcrypt.DefaultCost)
	BcryptCost int
}

// NewBackend creates an empty backend.
func NewBackend(opts Options) *Backend {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Backend{
		tenants: make(map[string]*tenant),
		tokens:  make(map[string]string),
		cost:    cost,
	}
}

// RequestCount returns the number of HTTP requests served so far.
func (b *Backend) RequestCount() int64 {
	return b.requests.Load()
}

// AddTenant registers a tenant directly and returns a valid access token.
func (b *Backend) AddTenant(email, password, name string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tenants[normalizeEmail(email)] = &tenant{
		email:        normalizeEmail(email),
		name:         name,
		passwordHash: hash,
		apiKey:       newAPIKey(),
	}
	return b.issueTokenLocked(email), nil
}

// SetAnalytics replaces the analytics payload for a tenant.
func (b *Backend) SetAnalytics(email string, a Analytics) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.tenants[normalizeEmail(email)]; ok {
		t.analytics = a
	}
}

// PolicyEndpoint returns the stored policy endpoint for a tenant.
func (b *Backend) PolicyEndpoint(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.tenants[normalizeEmail(email)]; ok {
		return t.policyEndpoint
	}
	return ""
}

// RevokeTokens invalidates every token issued so far.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]string)
}

// Handler returns the HTTP routes.
func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(b.countRequests)

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	auth := r.PathPrefix(AuthPrefix + "/auth").Subrouter()
	auth.HandleFunc("/login", b.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/register", b.handleRegister).Methods(http.MethodPost)

	api := r.PathPrefix(TenantPrefix).Subrouter()
	api.Use(b.requireToken)
	api.HandleFunc("/configuration", b.handleGetConfiguration).Methods(http.MethodGet)
	api.HandleFunc("/configuration", b.handleSetConfiguration).Methods(http.MethodPost)
	api.HandleFunc("/analytics", b.handleAnalytics).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})
	return r
}

func (b *Backend) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func tenantEmail(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}

		b.mu.Lock()
		email, found := b.tokens[token]
		b.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, email)))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Name        string `json:"name,omitempty"`
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "body", "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidation(w, "email", "field required")
		return
	}

	b.mu.Lock()
	t, ok := b.tenants[normalizeEmail(req.Email)]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(t.passwordHash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}

	b.mu.Lock()
	token := b.issueTokenLocked(t.email)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", Name: t.name})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "body", "invalid JSON")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeValidation(w, "email", "value is not a valid email address")
		return
	}
	if len(req.Password) < 8 {
		writeValidation(w, "password", "ensure this value has at least 8 characters")
		return
	}

	b.mu.Lock()
	_, exists := b.tenants[normalizeEmail(req.Email)]
	b.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
		return
	}

	token, err := b.AddTenant(req.Email, req.Password, req.Name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create tenant"})
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer", Name: req.Name})
}

type configurationPayload struct {
	PolicyEndpoint string `json:"client_policy_api_endpoint"`
	APIKey         string `json:"client_api_key,omitempty"`
}

func (b *Backend) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	t := b.tenants[tenantEmail(r)]
	resp := configurationPayload{PolicyEndpoint: t.policyEndpoint, APIKey: t.apiKey}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleSetConfiguration(w http.ResponseWriter, r *http.Request) {
	var req configurationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "body", "invalid JSON")
		return
	}
	if req.PolicyEndpoint != "" && !strings.HasPrefix(req.PolicyEndpoint, "http://") && !strings.HasPrefix(req.PolicyEndpoint, "https://") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "client_policy_api_endpoint must be an http(s) URL"})
		return
	}

	b.mu.Lock()
	t := b.tenants[tenantEmail(r)]
	t.policyEndpoint = req.PolicyEndpoint
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"message":                    "Configuration updated",
		"client_policy_api_endpoint": req.PolicyEndpoint,
	})
}

func (b *Backend) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	a := b.tenants[tenantEmail(r)].analytics
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, a)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (b *Backend) issueTokenLocked(email string) string {
	token := "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	b.tokens[token] = normalizeEmail(email)
	return token
}

func newAPIKey() string {
	return "sk_bargain_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeValidation mimics the FastAPI 422 shape, where detail is a list.
func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{
			{"loc": []string{"body", field}, "msg": msg, "type": "value_error"},
		},
	})
}

// SampleAnalytics returns a week of plausible numbers ending at end.
func SampleAnalytics(end time.Time) Analytics {
	chats := []int{42, 55, 38, 61, 70, 48, 66}
	deals := []int{12, 19, 9, 22, 27, 15, 24}

	a := Analytics{}
	for i := range chats {
		day := end.AddDate(0, 0, i-len(chats)+1)
		a.ChartData = append(a.ChartData, ChartPoint{
			Date:  day.Format("2006-01-02"),
			Chats: chats[i],
			Deals: deals[i],
		})
		a.TotalNegotiations += chats[i]
		a.TotalDealsClosed += deals[i]
	}
	a.TotalVolume = float64(a.TotalDealsClosed) * 84.5
	a.ConversionRate = float64(a.TotalDealsClosed) / float64(a.TotalNegotiations) * 100
	return a
}
