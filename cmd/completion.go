package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion",
	Long: `Generates shell completion scripts for humanpanic.

Bash:
  $ source <(humanpanic completion bash)

Zsh:
  $ humanpanic completion zsh > "${fpath[1]}/_humanpanic"

Fish:
  $ humanpanic completion fish > ~/.config/fish/completions/humanpanic.fish

PowerShell:
  PS> humanpanic completion powershell | Out-String | Invoke-Expression
`,
	Annotations:           map[string]string{noHookAnnotation: ""},
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
