// cmd/demo.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bargainbaas/bargain-cli/internal/demo"
)

var demoPort int
var demoEmail string
var demoPassword string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a local BargainBaaS backend for trying the CLI",
	Long: `Start an in-memory backend that serves the auth and tenant APIs.

One tenant is created up front with a week of sample analytics. Point the
CLI at it with --auth-url and --tenant-url, or the matching BARGAIN_API_*
environment variables. Nothing is persisted; stopping the server forgets
every account.

Example:
  bargain demo              # Start on default port 8088
  bargain demo --port 9000  # Start on custom port`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVarP(&demoPort, "port", "p", 8088, "Port to listen on")
	demoCmd.Flags().StringVar(&demoEmail, "email", "demo@bargain.test", "Email of the seeded tenant")
	demoCmd.Flags().StringVar(&demoPassword, "password", "bargain-demo", "Password of the seeded tenant")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	backend := demo.NewBackend(demo.Options{})
	if _, err := backend.AddTenant(demoEmail, demoPassword, "Demo Shop"); err != nil {
		return fmt.Errorf("failed to seed demo tenant: %w", err)
	}
	backend.SetAnalytics(demoEmail, demo.SampleAnalytics(time.Now()))

	server := demo.NewServer(demoPort, backend)
	base := fmt.Sprintf("http://localhost:%d", demoPort)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting demo backend on %s\n", base)
	fmt.Fprintf(out, "  export BARGAIN_API_AUTH_URL=%s%s\n", base, demo.AuthPrefix)
	fmt.Fprintf(out, "  export BARGAIN_API_TENANT_URL=%s%s\n", base, demo.TenantPrefix)
	fmt.Fprintf(out, "Sign in with %s / %s\n", demoEmail, demoPassword)
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	// The root context is cancelled on SIGINT/SIGTERM.
	return server.Start(cmd.Context())
}
