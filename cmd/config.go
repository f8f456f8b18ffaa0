// cmd/config.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/configsync"
	"github.com/bargainbaas/bargain-cli/internal/output"
	"github.com/bargainbaas/bargain-cli/internal/tui/configedit"
	"github.com/bargainbaas/bargain-cli/internal/ui"
)

var configShowKey bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change the tenant configuration",
	Long: `View or change the tenant configuration held by the service.

The policy endpoint is the URL the negotiation agent calls to fetch your
pricing rules. It must be an absolute http or https URL.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the tenant configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			cfg, err := a.tenant.GetConfiguration(ctx)
			if err != nil {
				return err
			}
			return a.render(cmd, output.NewConfiguration(cfg, configShowKey))
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <policy-endpoint-url>",
	Short: "Set the policy endpoint",
	Long: `Set the policy endpoint. The current value is loaded first; when the new
value is the same nothing is sent.

Example:
  bargain config set https://shop.example/api/bargain/policy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			field := configsync.NewPolicyEndpointField(a.tenant, Debug)
			if err := field.Load(ctx); err != nil {
				return withStatus(field.State().Message, err)
			}
			field.Edit(args[0])

			var st configsync.State
			err := ui.RunWithSpinner(a.decorate(), ui.StyleDoing, "Saving configuration", func() error {
				var err error
				st, err = field.Submit(ctx)
				return err
			})
			if err != nil {
				return withStatus(st.Message, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(st.Message))
			return nil
		})
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the policy endpoint interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactive() {
			return errors.New("config edit needs a terminal; use 'bargain config set <url>' instead")
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			field := configsync.NewPolicyEndpointField(a.tenant, Debug)
			st, err := configedit.Run(ctx, field, "Policy endpoint URL")
			if err != nil {
				return err
			}
			if st.Dirty {
				fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("Unsaved changes were discarded."))
			}
			return nil
		})
	},
}

func init() {
	configGetCmd.Flags().BoolVar(&configShowKey, "show-key", false, "Print the API key unmasked")
	configCmd.AddCommand(configGetCmd, configSetCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
