// cmd/analytics.go
package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/analytics"
	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/logging"
	"github.com/bargainbaas/bargain-cli/internal/output"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print negotiation analytics",
	Long: `Print the headline counters and the daily activity series.

A failed fetch is logged and the counters are printed as zeros; run with
--debug to see why.

Examples:
  bargain analytics
  bargain analytics -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			fetcher := a.fetcher()

			var snap analytics.Snapshot
			_ = ui.RunWithSpinner(a.decorate(), ui.StyleThinking, "Loading analytics", func() error {
				snap = fetcher.Fetch(ctx)
				return nil
			})

			if err := fetcher.LastError(); err != nil && a.decorate() {
				warn := "Analytics are unavailable right now; showing zeros."
				if apiErr, ok := api.AsError(err); ok && (apiErr.Kind == api.KindUnauthorized || apiErr.SessionCleared()) {
					warn = "Not signed in; run `bargain login` to see your analytics."
				}
				cmd.PrintErrln(color.YellowString(warn))
			}
			return a.render(cmd, output.NewAnalytics(snap))
		})
	},
}

func (a *app) fetcher() *analytics.Fetcher {
	return analytics.NewFetcher(analytics.FetcherConfig{
		Source: a.tenant,
		LogFn:  logging.LogFunc(logger),
	})
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
