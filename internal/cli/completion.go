package cli

import (
	"github.com/spf13/cobra"
)

// sceneExtensions are the file extensions offered when completing a scene
// argument.
var sceneExtensions = []string{"toml", "yaml", "yml", "json"}

// sceneFileCompletion completes the single scene-file argument.
func sceneFileCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sceneExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for anchorage.

To load completions:

Bash:
  $ source <(anchorage completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # enable it once with:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ anchorage completion zsh > "${fpath[1]}/_anchorage"

Fish:
  $ anchorage completion fish > ~/.config/fish/completions/anchorage.fish

PowerShell:
  PS> anchorage completion powershell | Out-String | Invoke-Expression

Scene arguments complete to .toml, .yaml, .yml and .json files.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
