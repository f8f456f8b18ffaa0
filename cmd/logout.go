// cmd/logout.go
package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			wasSignedIn := a.store.Get().Authenticated()
			nav, err := a.controller().Logout(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			out := cmd.OutOrStdout()
			if wasSignedIn {
				fmt.Fprintln(out, color.GreenString("Signed out."))
			} else {
				fmt.Fprintln(out, "Not signed in.")
			}
			printNext(out, nav)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
