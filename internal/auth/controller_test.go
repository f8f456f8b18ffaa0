package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/demo"
	"github.com/bargainbaas/bargain-cli/internal/session"
)

func newController(t *testing.T, baseURL string, store *session.Store) *Controller {
	t.Helper()
	return NewController(Config{
		Client: api.NewClient(api.ClientConfig{BaseURL: baseURL, Credentials: store}),
		Store:  store,
	})
}

func newDemo(t *testing.T) (*demo.Backend, string) {
	t.Helper()
	b := demo.NewBackend(demo.Options{BcryptCost: bcrypt.MinCost})
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv.URL + demo.AuthPrefix
}

func stub(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestLoginSuccessStoresTokenAndNavigatesToDashboard(t *testing.T) {
	b, baseURL := newDemo(t)
	_, err := b.AddTenant("ops@shop.test", "correct-horse", "Ops Team")
	require.NoError(t, err)

	store := session.NewMemoryStore(session.Credential{})
	c := newController(t, baseURL, store)

	res, err := c.Login(context.Background(), "ops@shop.test", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, Authenticated, res.State)
	assert.Equal(t, RouteDashboard, res.Navigation.Target)
	assert.Equal(t, Authenticated, c.State())

	cred := store.Get()
	assert.NotEmpty(t, cred.Token)
	assert.Equal(t, res.Credential.Token, cred.Token)
	assert.Equal(t, "ops@shop.test", cred.Email)
	assert.Equal(t, "Ops Team", cred.DisplayName)
}

func TestLoginStoresReturnedAccessToken(t *testing.T) {
	baseURL := stub(t, http.StatusOK, `{"access_token":"jwt-abc","token_type":"bearer"}`)
	store := session.NewMemoryStore(session.Credential{DisplayName: "stale"})
	c := newController(t, baseURL, store)

	res, err := c.Login(context.Background(), "ops@shop.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, res.Navigation.Target)
	assert.Equal(t, "jwt-abc", store.Get().Token)
	assert.Empty(t, store.Get().DisplayName)
}

func TestLoginInvalidCredentialsShowsBackendDetail(t *testing.T) {
	b, baseURL := newDemo(t)
	_, err := b.AddTenant("ops@shop.test", "correct-horse", "Ops")
	require.NoError(t, err)

	store := session.NewMemoryStore(session.Credential{})
	c := newController(t, baseURL, store)

	res, err := c.Login(context.Background(), "ops@shop.test", "wrong-password")
	require.NoError(t, err)

	assert.Equal(t, Failed, res.State)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.Equal(t, "Invalid credentials", c.Message())
	assert.False(t, store.Get().Authenticated())
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", http.StatusUnauthorized, `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", http.StatusBadRequest, `{"error":"Account locked"}`, "Account locked"},
		{"list detail is coerced", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, MsgLoginFailed},
		{"object detail is coerced", http.StatusBadRequest, `{"detail":{"code":7}}`, MsgLoginFailed},
		{"html body", http.StatusBadGateway, `<html></html>`, MsgLoginFailed},
		{"success without token", http.StatusOK, `{"token_type":"bearer"}`, MsgLoginFailed},
		{"success with non-string token", http.StatusOK, `{"access_token":42}`, MsgLoginFailed},
		{"success with invalid json", http.StatusOK, `nope`, MsgLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore(session.Credential{})
			c := newController(t, stub(t, tt.status, tt.body), store)

			res, err := c.Login(context.Background(), "ops@shop.test", "pw")
			require.NoError(t, err)
			assert.Equal(t, Failed, res.State)
			assert.Equal(t, tt.want, res.Message)
			assert.False(t, store.Get().Authenticated())
		})
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newController(t, url, session.NewMemoryStore(session.Credential{}))
	res, err := c.Login(context.Background(), "ops@shop.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, MsgUnexpected, res.Message)
}

func TestRegisterStoresTypedName(t *testing.T) {
	_, baseURL := newDemo(t)
	store := session.NewMemoryStore(session.Credential{})
	c := newController(t, baseURL, store)

	res, err := c.Register(context.Background(), "new@shop.test", "long-enough-pw", "New Shop")
	require.NoError(t, err)
	assert.Equal(t, Authenticated, res.State)
	assert.Equal(t, RouteDashboard, res.Navigation.Target)

	cred := store.Get()
	assert.True(t, cred.Authenticated())
	assert.Equal(t, "new@shop.test", cred.Email)
	assert.Equal(t, "New Shop", cred.DisplayName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	b, baseURL := newDemo(t)
	_, err := b.AddTenant("dup@shop.test", "long-enough-pw", "Dup")
	require.NoError(t, err)

	c := newController(t, baseURL, session.NewMemoryStore(session.Credential{}))
	res, err := c.Register(context.Background(), "dup@shop.test", "long-enough-pw", "Dup")
	require.NoError(t, err)
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, "Email already registered", res.Message)
}

func TestRegisterValidationErrorUsesFallback(t *testing.T) {
	_, baseURL := newDemo(t)
	c := newController(t, baseURL, session.NewMemoryStore(session.Credential{}))

	res, err := c.Register(context.Background(), "new@shop.test", "short", "New")
	require.NoError(t, err)
	assert.Equal(t, MsgRegisterFailed, res.Message)
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		io.WriteString(w, `{"access_token":"jwt"}`)
	}))
	defer srv.Close()

	c := newController(t, srv.URL, session.NewMemoryStore(session.Credential{}))

	done := make(chan Result, 1)
	go func() {
		res, _ := c.Login(context.Background(), "ops@shop.test", "pw")
		done <- res
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the server")
	}
	assert.Equal(t, Submitting, c.State())
	assert.False(t, c.CanSubmit())

	_, err := c.Login(context.Background(), "ops@shop.test", "pw")
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(release)
	res := <-done
	assert.Equal(t, Authenticated, res.State)
	assert.True(t, c.CanSubmit())
}

func TestResubmitAfterFailure(t *testing.T) {
	b, baseURL := newDemo(t)
	_, err := b.AddTenant("ops@shop.test", "correct-horse", "Ops")
	require.NoError(t, err)
	c := newController(t, baseURL, session.NewMemoryStore(session.Credential{}))

	res, _ := c.Login(context.Background(), "ops@shop.test", "nope")
	require.Equal(t, Failed, res.State)

	res, err = c.Login(context.Background(), "ops@shop.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, Authenticated, res.State)
	assert.Empty(t, c.Message())
}

func TestLogoutClearsCredential(t *testing.T) {
	store := session.NewMemoryStore(session.Credential{Token: "jwt", Email: "ops@shop.test", DisplayName: "Ops"})
	c := NewController(Config{Store: store})

	nav, err := c.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, nav.Target)
	assert.Equal(t, session.Credential{}, store.Get())
	assert.Equal(t, Idle, c.State())
}
