package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pacview.

Bash:
  $ source <(pacview completion bash)
  # or, for every session:
  $ pacview completion bash > /usr/share/bash-completion/completions/pacview

Zsh:
  $ pacview completion zsh > "${fpath[1]}/_pacview"

Fish:
  $ pacview completion fish > ~/.config/fish/completions/pacview.fish

PowerShell:
  PS> pacview completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completePackages completes the single package argument of info and graph
// from the configured package source.
func (c *CLI) completePackages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	src, err := c.sourceFor(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	records, _, err := c.loadRecords(cmd.Context(), src)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for name := range records {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}
