// cmd/whoami.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `Show the email and name stored with the current session. The token itself
is never printed. Nothing is sent to the server, so a token the server has
since revoked still shows as signed in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.render(cmd, output.NewIdentity(a.store.Get(), a.cfg.SessionBackend))
		})
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
