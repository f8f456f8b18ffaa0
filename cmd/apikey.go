// cmd/apikey.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/output"
	"github.com/bargainbaas/bargain-cli/internal/platform"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var apikeyCopy bool
var apikeyShow bool

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Show the API key for integrating the negotiation widget",
	Long: `Show the tenant API key used by the storefront integration, together with a
link to the integration documentation.

In a terminal this opens a small screen: c copies the key, s shows or hides
it, b opens the documentation.

Examples:
  bargain apikey
  bargain apikey --copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			cfg, err := a.tenant.GetConfiguration(ctx)
			if err != nil {
				return err
			}
			key := cfg.APIKey
			masked := output.MaskKey(key)

			if apikeyCopy {
				if key == "" {
					return errors.New("no API key has been issued for this tenant")
				}
				if err := platform.CopyToClipboard(key); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ API key copied to clipboard"))
				return nil
			}

			if interactive() && a.cfg.OutputFormat == output.FormatTable {
				return ui.ShowAPIKey(key, masked, a.cfg.DocsURL, ui.APIKeyActions{
					Copy:     platform.CopyToClipboard,
					OpenDocs: platform.OpenURL,
				})
			}

			shown := masked
			if apikeyShow {
				shown = key
			}
			if a.cfg.OutputFormat != output.FormatTable {
				return a.render(cmd, output.Configuration{PolicyEndpoint: cfg.PolicyEndpoint, APIKey: shown})
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderAPIKeyBox(shown, a.cfg.DocsURL))
			return nil
		})
	},
}

func init() {
	apikeyCmd.Flags().BoolVar(&apikeyCopy, "copy", false, "Copy the key to the clipboard and exit")
	apikeyCmd.Flags().BoolVar(&apikeyShow, "show", false, "Print the key unmasked")
	rootCmd.AddCommand(apikeyCmd)
}
