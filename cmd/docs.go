// cmd/docs.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/platform"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Open the integration documentation in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := platform.OpenURL(a.cfg.DocsURL); err != nil {
				// Still useful: print the link so it can be opened by hand.
				fmt.Fprintln(cmd.OutOrStdout(), ui.HyperlinkSelf(a.cfg.DocsURL))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", ui.HyperlinkSelf(a.cfg.DocsURL))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
