// cmd/dashboard.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/tui/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Open the interactive analytics dashboard",
	Long: `Open the full-screen analytics dashboard. Counters start at zero and fill
in once the analytics have been fetched. Press r to fetch again (at most
once every two seconds) and q to quit.

Without a terminal this behaves like 'bargain analytics'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactive() {
			return analyticsCmd.RunE(cmd, args)
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			cred := a.store.Get()
			account := cred.Email
			if cred.DisplayName != "" {
				account = cred.DisplayName
			}
			return dashboard.Run(ctx, dashboard.Config{
				Fetcher: a.fetcher(),
				Account: account,
				Version: Version,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
