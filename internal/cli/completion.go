package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/macroscout/pkg/pipeline"
)

// Suggested values for the scan flags. Any positive number is accepted.
var (
	countSuggestions       = []int{10, pipeline.DefaultCount, 100, 200}
	concurrencySuggestions = []int{pipeline.DefaultConcurrency, 4, 8, 16, 32}
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for macroscout and load it in your shell.

Completions cover subcommands, flags and suggested --count/--concurrency
values. Crate names are not completed; the shell will not offer files for
them either.

  $ source <(macroscout completion bash)
  $ macroscout completion zsh > "${fpath[1]}/_macroscout"
  $ macroscout completion fish | source
  PS> macroscout completion powershell | Out-String | Invoke-Expression`,
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// noCrateCompletion stops the shell from offering local files where a crate
// name is expected.
func noCrateCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// numberCompletion offers fixed numeric values for a flag, each with a
// short description.
func numberCompletion(values []int, describe func(int) string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, strconv.Itoa(v)+"\t"+describe(v))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerScanCompletions wires flag and argument completions for scan.
func registerScanCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = noCrateCompletion
	_ = cmd.RegisterFlagCompletionFunc("count", numberCompletion(countSuggestions, func(n int) string {
		if n == pipeline.DefaultCount {
			return "default"
		}
		return "inspect " + strconv.Itoa(n) + " dependents"
	}))
	_ = cmd.RegisterFlagCompletionFunc("concurrency", numberCompletion(concurrencySuggestions, func(n int) string {
		if n == pipeline.DefaultConcurrency {
			return "all at once (default)"
		}
		return strconv.Itoa(n) + " downloads at a time"
	}))
}
