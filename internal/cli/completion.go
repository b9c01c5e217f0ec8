package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// shells maps each supported shell onto its completion generator.
var shells = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash":       func(root *cobra.Command, out io.Writer) error { return root.GenBashCompletion(out) },
	"zsh":        func(root *cobra.Command, out io.Writer) error { return root.GenZshCompletion(out) },
	"fish":       func(root *cobra.Command, out io.Writer) error { return root.GenFishCompletion(out, true) },
	"powershell": func(root *cobra.Command, out io.Writer) error { return root.GenPowerShellCompletionWithDesc(out) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ` + appName + `.

Bash:
  $ source <(` + appName + ` completion bash)

Zsh:
  $ ` + appName + ` completion zsh > "${fpath[1]}/_` + appName + `"

Fish:
  $ ` + appName + ` completion fish | source

PowerShell:
  PS> ` + appName + ` completion powershell | Out-String | Invoke-Expression

Once groupId and artifactId are typed, the qualifier segment completes
to the range operators.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// qualifierStarts are offered for the qualifier segment being typed.
var qualifierStarts = []cobra.Completion{
	cobra.CompletionWithDesc("~", "patch updates of a minor version"),
	cobra.CompletionWithDesc("^", "compatible updates, same as a bare version"),
	cobra.CompletionWithDesc("*", "any version"),
	cobra.CompletionWithDesc(">=", "at least a version"),
	cobra.CompletionWithDesc("<", "below a version"),
}

// completeCoordinate completes the coordinate argument of the root command.
// Coordinates cannot be listed without a search API, so only the
// qualifier operators are suggested, and only once g:a: is typed.
func completeCoordinate(_ *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 || strings.HasPrefix(toComplete, "pkg:") || strings.Count(toComplete, ":") < 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	prefix := toComplete[:strings.LastIndex(toComplete, ":")+1]
	if toComplete != prefix {
		return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
	completions := make([]cobra.Completion, len(qualifierStarts))
	for i, q := range qualifierStarts {
		completions[i] = prefix + q
	}
	return completions, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
