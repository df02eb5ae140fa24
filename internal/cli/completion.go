package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/groupflow/pkg/grouping"
)

// scenarioExts are the file extensions scenario.Load accepts.
var scenarioExts = []string{"toml", "yaml", "yml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for groupflow on stdout.

Scenario arguments complete to .toml, .yaml and .yml files, and the
--tie-break and --id-source flags complete to their accepted values.

  $ source <(groupflow completion bash)
  $ groupflow completion zsh > "${fpath[1]}/_groupflow"
  $ groupflow completion fish > ~/.config/fish/completions/groupflow.fish
  PS> groupflow completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// completeScenarios restricts positional completion to scenario files.
func completeScenarios(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return scenarioExts, cobra.ShellCompDirectiveFilterFileExt
}

// registerEngineCompletions adds value completion for the engine flags.
func registerEngineCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("tie-break", cobra.FixedCompletions(
		[]string{string(grouping.TieBreakLargestOverlap), string(grouping.TieBreakFirst)},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("id-source", cobra.FixedCompletions(
		[]string{"seq", "uuid"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("probe", cobra.NoFileCompletions)
}
