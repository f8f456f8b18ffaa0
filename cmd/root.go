// cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bargainbaas/bargain-cli/internal/api"
	"github.com/bargainbaas/bargain-cli/internal/logging"
)

var cfgFile string
var debugMode bool
var noColor bool

// logger is replaced once configuration has been read.
var logger = logging.Nop()

// Debug writes a redacted debug line to the diagnostics log. With --debug
// it is echoed to stderr as well.
func Debug(format string, args ...any) {
	logger.Debug(logging.Redact(fmt.Sprintf(format, args...)))
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bargain",
	Short: "bargain is the terminal dashboard for BargainBaaS tenants",
	Long: `A terminal client for the BargainBaaS negotiation service.

Sign in to your tenant account, watch negotiation analytics, and manage the
policy endpoint the negotiation agent calls.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		if debugMode {
			fullCmd := cmd.CommandPath()
			cmd.Flags().Visit(func(f *pflag.Flag) {
				if f.Name == "debug" {
					return
				}
				if f.Value.Type() == "bool" {
					fullCmd += " --" + f.Name
				} else {
					fullCmd += " --" + f.Name + "=" + f.Value.String()
				}
			})
			if len(args) > 0 {
				fullCmd += " " + strings.Join(args, " ")
			}
			// The logger isn't built yet; commands that load config log again.
			fmt.Fprintf(os.Stderr, "[DEBUG] command: %s\n", logging.Redact(fullCmd))
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("Error: %s", userMessage(err)))
	if apiErr, ok := api.AsError(err); ok && apiErr.SessionCleared() {
		fmt.Fprintln(os.Stderr, color.YellowString("Your session has expired. Run `bargain login` to sign in again."))
	}
}

// userMessage prefers a field status message, then the page-level display
// string of an API failure.
func userMessage(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		return se.msg
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Display()
	}
	return err.Error()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bargain/config.yaml)")
	pf.String("tenant-url", "", "Base URL of the tenant API")
	pf.String("auth-url", "", "Base URL of the auth API")
	pf.StringP("output", "o", "", "Output format: table, json, yaml or csv")
	pf.BoolVar(&debugMode, "debug", false, "Enable debug output")
	pf.BoolVar(&noColor, "no-color", false, "Disable colors and interactive screens")
}
