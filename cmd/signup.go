// cmd/signup.go
package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/auth"
	"github.com/bargainbaas/bargain-cli/internal/platform"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var signupEmail string
var signupName string
var signupPasswordStdin bool

var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create a BargainBaaS tenant account",
	Long: `Register a new tenant account and sign in to it.

Examples:
  bargain signup
  bargain signup --email ops@shop.example --name "Shop Ops"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			email, err := promptEmail(signupEmail)
			if err != nil {
				return err
			}
			name := strings.TrimSpace(signupName)
			if name == "" {
				if !platform.IsInteractive() {
					return errors.New("--name is required when not running in a terminal")
				}
				if name, err = ui.AskInput("Your name", "Shop Ops", "", nil); err != nil {
					return err
				}
			}
			password, err := readPassword(cmd, "Choose a password: ", signupPasswordStdin)
			if err != nil {
				return err
			}

			ctrl := a.controller()
			return submitAuth(cmd, a, "Creating account", func() (auth.Result, error) {
				return ctrl.Register(ctx, email, password, name)
			})
		})
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupName, "name", "", "Display name")
	signupCmd.Flags().BoolVar(&signupPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(signupCmd)
}
