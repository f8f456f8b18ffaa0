// cmd/completion.go
package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bargain.

To load completions:

Bash:
  $ source <(bargain completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ bargain completion bash > /etc/bash_completion.d/bargain
  # macOS:
  $ bargain completion bash > $(brew --prefix)/etc/bash_completion.d/bargain

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ bargain completion zsh > "${fpath[1]}/_bargain"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ bargain completion fish | source

  # To load completions for each session, execute once:
  $ bargain completion fish > ~/.config/fish/completions/bargain.fish

PowerShell:
  PS> bargain completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, add the output to your profile:
  PS> bargain completion powershell > bargain.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletionV2(cmd.OutOrStdout(), true)
		case "zsh":
			rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
