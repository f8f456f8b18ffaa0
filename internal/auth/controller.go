// Package auth implements the login / registration submit cycle.
//
// A Controller moves Idle → Submitting → Authenticated | Failed for one
// submission. Success writes the credential to the session store and returns
// a Navigation value; the caller decides what "navigating" means (the CLI
// prints a hint, the TUI switches screens).
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/session"
)

// Routes returned as navigation intents.
const (
	RouteDashboard = "/dashboard"
	RouteLogin     = "/auth/login"
)

// User-facing fallback messages.
const (
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgRegisterFailed = "Registration failed. That email may already be in use."
	MsgUnexpected     = "An unexpected error occurred. Please try again."
)

// ErrSubmitInProgress is returned when Login or Register is called while a
// previous submission on the same Controller has not finished.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// State of a Controller.
type State int

const (
	Idle State = iota
	Submitting
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Navigation is where the caller should go next.
type Navigation struct {
	Target string
}

// Result is the terminal outcome of one submission.
type Result struct {
	State      State
	Navigation Navigation // set when State == Authenticated
	Message    string     // set when State == Failed
	Credential session.Credential
}

// Requester performs unauthenticated calls. *api.Client satisfies it.
type Requester interface {
	Anonymous(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error)
}

// Config wires a Controller.
type Config struct {
	Client Requester
	Store  *session.Store

	// DebugFunc is an optional callback for debug logging
	DebugFunc func(format string, args ...any)
}

// Controller owns the state for one login or signup form.
type Controller struct {
	client    Requester
	store     *session.Store
	debugFunc func(format string, args ...any)

	mu      sync.Mutex
	state   State
	message string
}

// NewController creates a Controller in the Idle state.
func NewController(cfg Config) *Controller {
	return &Controller{
		client:    cfg.Client,
		store:     cfg.Store,
		debugFunc: cfg.DebugFunc,
	}
}

func (c *Controller) debug(format string, args ...any) {
	if c.debugFunc != nil {
		c.debugFunc(format, args...)
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Message returns the failure message of the last submission, if any.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// CanSubmit reports whether the submit affordance should be enabled.
func (c *Controller) CanSubmit() bool {
	return c.State() != Submitting
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

// Login submits email and password to POST /auth/login.
func (c *Controller) Login(ctx context.Context, email, password string) (Result, error) {
	return c.submit(ctx, "/auth/login", loginRequest{Email: email, Password: password}, email, "", MsgLoginFailed)
}

// Register submits a new account to POST /auth/register. The display name
// stored on success is the one the user typed.
func (c *Controller) Register(ctx context.Context, email, password, name string) (Result, error) {
	return c.submit(ctx, "/auth/register", registerRequest{Email: email, Password: password, Name: name}, email, name, MsgRegisterFailed)
}

// Logout clears every persisted key and resets the controller.
func (c *Controller) Logout(ctx context.Context) (Navigation, error) {
	if err := c.store.Clear(ctx); err != nil {
		return Navigation{}, err
	}
	c.mu.Lock()
	c.state = Idle
	c.message = ""
	c.mu.Unlock()
	return Navigation{Target: RouteLogin}, nil
}

func (c *Controller) submit(ctx context.Context, endpoint string, body any, email, name, fallback string) (Result, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return Result{State: Submitting}, ErrSubmitInProgress
	}
	// Authenticated and Failed end an attempt; a new submit starts over.
	c.state = Submitting
	c.message = ""
	c.mu.Unlock()

	raw, err := c.client.Anonymous(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return c.fail(failureMessage(err, fallback), err), nil
	}

	var resp struct {
		AccessToken any `json:"access_token"`
		Name        any `json:"name"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return c.fail(fallback, fmt.Errorf("decode %s response: %w", endpoint, err)), nil
	}
	token, _ := resp.AccessToken.(string)
	if token == "" {
		return c.fail(fallback, fmt.Errorf("%s response has no access_token", endpoint)), nil
	}
	if name == "" {
		name, _ = resp.Name.(string)
	}

	cred := session.Credential{
		Token:       token,
		Email:       strings.TrimSpace(email),
		DisplayName: name,
	}
	if err := c.store.Set(ctx, cred); err != nil {
		return c.fail(MsgUnexpected, err), fmt.Errorf("save credential: %w", err)
	}

	c.mu.Lock()
	c.state = Authenticated
	c.mu.Unlock()
	c.debug("%s succeeded for %s", endpoint, cred.Email)

	return Result{
		State:      Authenticated,
		Navigation: Navigation{Target: RouteDashboard},
		Credential: cred,
	}, nil
}

// fail records the Failed state for the current attempt.
func (c *Controller) fail(msg string, cause error) Result {
	c.debug("submission failed: %v", cause)

	c.mu.Lock()
	c.state = Failed
	c.message = msg
	c.mu.Unlock()

	return Result{State: Failed, Message: msg}
}

// failureMessage maps an outcome to a display-safe string: the backend's own
// detail string when it sent one, otherwise a fixed fallback.
func failureMessage(err error, fallback string) string {
	apiErr, ok := api.AsError(err)
	if !ok {
		return MsgUnexpected
	}
	switch apiErr.Kind {
	case api.KindHTTP:
		if apiErr.FromBody && strings.TrimSpace(apiErr.Detail) != "" {
			return apiErr.Detail
		}
		return fallback
	case api.KindNetwork:
		return MsgUnexpected
	default:
		return fallback
	}
}
