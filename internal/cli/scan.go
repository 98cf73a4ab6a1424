package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/macroscout/pkg/classify"
	"github.com/matzehuels/macroscout/pkg/pipeline"
)

// scanOptions holds the scan command's own flags. Count and concurrency
// are read from the bound configuration.
type scanOptions struct {
	ShowSkipped bool
}

// scanCommand creates the scan command, the main entry point.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [anchor]",
		Short: "List the proc-macro crates among an anchor crate's dependents",
		Long: `Scan fetches the reverse dependencies of the anchor crate (quote by default),
ranks them by download count and prints every candidate whose newest release
declares lib.proc-macro = true, one "<downloads> <name>" line per crate.

Candidates that cannot be inspected are left out of the output.`,
		Example: `  # Top 50 dependents of quote
  macroscout scan

  # Top 200 dependents of syn, at most 16 downloads at a time
  macroscout scan syn --count 200 --concurrency 16`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor := pipeline.DefaultAnchor
			if len(args) == 1 {
				anchor = args[0]
			}
			return c.runScan(cmd.Context(), cmd.OutOrStdout(), anchor, opts)
		},
	}

	cmd.Flags().IntP("count", "n", pipeline.DefaultCount, "number of reverse dependencies to inspect")
	cmd.Flags().IntP("concurrency", "j", pipeline.DefaultConcurrency, "max crates inspected at once (0 = all at once)")
	cmd.Flags().BoolVar(&opts.ShowSkipped, "show-skipped", false, "log candidates that could not be inspected")
	_ = c.config.BindPFlag(keyCount, cmd.Flags().Lookup("count"))
	_ = c.config.BindPFlag(keyConcurrency, cmd.Flags().Lookup("concurrency"))
	registerScanCompletions(cmd)

	return cmd
}

func (c *CLI) runScan(ctx context.Context, out io.Writer, anchor string, opts scanOptions) error {
	cfg, err := loadConfig(c.config)
	if err != nil {
		return err
	}
	client := newClient(cfg)
	runner := pipeline.NewRunner(client, classify.New(client), c.Logger)

	spinner := c.startSpinner(ctx, "Inspecting dependents of "+anchor+"...")
	result, err := runner.Run(ctx, pipeline.Options{
		Anchor:      anchor,
		Count:       cfg.Count,
		Concurrency: cfg.Concurrency,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := pipeline.WriteMatches(out, result.Matches); err != nil {
		return err
	}

	if opts.ShowSkipped {
		for _, s := range result.Skipped() {
			c.Logger.Warn("skipped candidate", "crate", s.Candidate.Name, "reason", s.Outcome.Reason())
		}
	}
	printScanStats(c.stderr, result.Stats)
	return nil
}
