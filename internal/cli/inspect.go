package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/macroscout/pkg/classify"
	"github.com/matzehuels/macroscout/pkg/manifest"
	"github.com/matzehuels/macroscout/pkg/parallel"
)

// inspectOptions holds the inspect command's flags.
type inspectOptions struct {
	OnlyMacros bool
}

// inspectCommand creates the inspect command for classifying named crates.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect <crate>...",
		Short: "Classify specific crates",
		Long: `Inspect downloads the newest release of each named crate and reports whether
it is a procedural-macro crate. Unlike scan, crates that cannot be inspected
are listed together with the reason.

With --only-macros only the names of proc-macro crates are printed, in
argument order, and crates that cannot be inspected are left out as in scan.`,
		Example: `  macroscout inspect serde_derive thiserror-impl serde

  # Keep the proc-macro crates of a list
  macroscout inspect --only-macros $(cat crates.txt)`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: noCrateCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.OnlyMacros, "only-macros", false, "print only the names of proc-macro crates")

	return cmd
}

// inspection is the report for one crate.
type inspection struct {
	Crate   string
	Version string
	Outcome classify.Outcome
}

func (c *CLI) runInspect(ctx context.Context, out io.Writer, names []string, opts inspectOptions) error {
	cfg, err := loadConfig(c.config)
	if err != nil {
		return err
	}
	cls := classify.New(newClient(cfg))
	if opts.OnlyMacros {
		return printMacros(ctx, out, cls, names, cfg.Concurrency)
	}
	prog := newProgress(loggerFromContext(ctx))

	results := parallel.Evaluate(ctx, names, cfg.Concurrency, func(ctx context.Context, name string) (inspection, error) {
		m, rel, err := cls.FetchManifest(ctx, name)
		if err != nil {
			version := ""
			if rel != nil {
				version = rel.Version
			}
			return inspection{Crate: name, Version: version, Outcome: classify.Unclassifiable(err)}, nil
		}
		if declared, _ := manifest.PackageID(m); declared != "" && declared != name {
			c.Logger.Debug("manifest declares a different package name", "crate", name, "declared", declared)
		}
		return inspection{Crate: name, Version: rel.Version, Outcome: classify.Classified(manifest.IsProcMacro(m))}, nil
	})
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("inspect crates: %w", err)
	}

	for i, r := range results {
		in := r.Value
		if r.Err != nil {
			in = inspection{Crate: names[i], Outcome: classify.Unclassifiable(r.Err)}
		}
		if err := writeInspection(out, in); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Inspected %d crates", len(names)))
	return nil
}

// printMacros prints the names in names that are proc-macro crates, one per
// line, in argument order.
func printMacros(ctx context.Context, out io.Writer, cls *classify.Classifier, names []string, limit int) error {
	macros := parallel.Filter(ctx, names, limit, func(ctx context.Context, name string) (bool, error) {
		o := cls.Classify(ctx, name)
		return o.Match(), o.Reason()
	})
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("inspect crates: %w", err)
	}

	for _, name := range macros {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

// writeInspection writes "<crate> <version> <outcome>"; the version is "-"
// when no release could be resolved.
func writeInspection(w io.Writer, in inspection) error {
	version := in.Version
	if version == "" {
		version = "-"
	}
	_, err := fmt.Fprintf(w, "%s %s %s\n", in.Crate, version, in.Outcome)
	return err
}
