// cmd/login.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/auth"
	"github.com/bargainbaas/bargain-cli/internal/platform"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var loginEmail string
var loginPasswordStdin bool

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your BargainBaaS tenant account",
	Long: `Sign in with your tenant email and password. The access token is kept in
the configured session store (by default ~/.bargain/credentials.json) and
used by every other command until you run 'bargain logout'.

Examples:
  bargain login
  bargain login --email ops@shop.example
  echo "$PASSWORD" | bargain login --email ops@shop.example --password-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			email, err := promptEmail(loginEmail)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd, "Password: ", loginPasswordStdin)
			if err != nil {
				return err
			}

			ctrl := a.controller()
			return submitAuth(cmd, a, "Signing in", func() (auth.Result, error) {
				return ctrl.Login(ctx, email, password)
			})
		})
	},
}

// promptEmail returns flagValue or asks for it on the terminal.
func promptEmail(flagValue string) (string, error) {
	if flagValue != "" {
		return strings.TrimSpace(flagValue), validateEmail(flagValue)
	}
	if !platform.IsInteractive() {
		return "", errors.New("--email is required when not running in a terminal")
	}
	return ui.AskInput("Email", "you@shop.example", "", validateEmail)
}

// submitAuth runs a login or signup submission and reports the outcome.
func submitAuth(cmd *cobra.Command, a *app, action string, submit func() (auth.Result, error)) error {
	var res auth.Result
	err := ui.RunWithSpinner(a.decorate(), ui.StyleWorking, action, func() error {
		var err error
		res, err = submit()
		if err != nil {
			return err
		}
		if res.State == auth.Failed {
			return errors.New(res.Message)
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	who := res.Credential.Email
	if res.Credential.DisplayName != "" {
		who = fmt.Sprintf("%s <%s>", res.Credential.DisplayName, res.Credential.Email)
	}
	fmt.Fprintf(out, "Signed in as %s\n", who)
	printNext(out, res.Navigation)
	return nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}
