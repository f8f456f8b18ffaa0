// cmd/helpers.go
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/auth"
	"github.com/bargainbaas/bargain-cli/internal/config"
	"github.com/bargainbaas/bargain-cli/internal/logging"
	"github.com/bargainbaas/bargain-cli/internal/output"
	"github.com/bargainbaas/bargain-cli/internal/platform"
	"github.com/bargainbaas/bargain-cli/internal/session"
	"github.com/bargainbaas/bargain-cli/internal/tenant"
	"github.com/bargainbaas/bargain-cli/internal/tui"
)

// app is what a command needs to talk to the service. It is built once per
// invocation and owns the credential store.
type app struct {
	cfg    *config.Config
	store  *session.Store
	auth   *api.Client
	tenant *tenant.Client
}

// newApp loads configuration, starts logging, and opens the credential store.
// Callers must Close the result.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile, Debug: debugMode})
	if err != nil {
		return nil, err
	}
	logger = l
	Debug("command: %s, config file: %q, session backend: %s", cmd.CommandPath(), cfg.ConfigFile, cfg.SessionBackend)

	ctx := cmd.Context()
	backend, err := session.OpenBackend(ctx, cfg.SessionBackendConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	store, err := session.Open(ctx, backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientCfg := func(baseURL string) api.ClientConfig {
		return api.ClientConfig{
			BaseURL:             baseURL,
			Credentials:         store,
			ClearOnUnauthorized: cfg.ClearOnUnauthorized,
			HTTPClient:          httpClient,
			UserAgent:           "bargain-cli/" + Version,
			DebugFunc:           Debug,
		}
	}

	return &app{
		cfg:    cfg,
		store:  store,
		auth:   api.NewClient(clientCfg(cfg.AuthURL)),
		tenant: tenant.NewClient(api.NewClient(clientCfg(cfg.TenantURL))),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp runs fn with a ready app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func (a *app) controller() *auth.Controller {
	return auth.NewController(auth.Config{Client: a.auth, Store: a.store, DebugFunc: Debug})
}

// render writes v in the configured output format.
func (a *app) render(cmd *cobra.Command, v any) error {
	return output.Write(cmd.OutOrStdout(), a.cfg.OutputFormat, v)
}

// decorate reports whether spinners and colored status lines should be
// shown. Machine-readable output formats turn them off.
func (a *app) decorate() bool {
	return a.cfg.OutputFormat == output.FormatTable && tui.ShouldUseInteractive(false, noColor)
}

// interactive reports whether full-screen views can be used.
func interactive() bool {
	return !noColor && platform.IsInteractive()
}

// nextStep turns a navigation intent into a hint for the user.
func nextStep(nav auth.Navigation) string {
	switch nav.Target {
	case auth.RouteDashboard:
		return "Run `bargain dashboard` to see your negotiation analytics."
	case auth.RouteLogin:
		return "Run `bargain login` to sign in again."
	default:
		return ""
	}
}

func printNext(w io.Writer, nav auth.Navigation) {
	if hint := nextStep(nav); hint != "" {
		fmt.Fprintln(w, color.New(color.Faint).Sprint(hint))
	}
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a valid email address")
	}
	return nil
}

// readPassword reads the password from stdin when fromStdin is set,
// otherwise prompts on the terminal without echo.
func readPassword(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if !platform.IsInteractive() {
		return "", errors.New("no terminal available; pass --password-stdin")
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := platform.ReadPassword()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return pw, nil
}

// statusError carries the message already shown next to a field while keeping
// the underlying failure reachable through errors.As.
type statusError struct {
	msg string
	err error
}

func (e *statusError) Error() string { return e.msg }
func (e *statusError) Unwrap() error { return e.err }

func withStatus(msg string, err error) error {
	if msg == "" {
		return err
	}
	return &statusError{msg: msg, err: err}
}
