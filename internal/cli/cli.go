package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/macroscout/pkg/buildinfo"
	"github.com/matzehuels/macroscout/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for config files and display.
	appName = "macroscout"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config  *viper.Viper
	cfgFile string
	verbose bool

	// Status output (spinner, summaries) goes to stderr so that stdout
	// carries only results.
	stderr io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: viper.New(),
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Macroscout finds procedural-macro crates on crates.io",
		Long: `Macroscout lists the most downloaded crates that depend on an anchor crate
(quote by default) and reports which of them are procedural-macro crates,
by reading the Cargo.toml of each candidate's newest release.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ./macroscout.yaml or $HOME/.config/macroscout/macroscout.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it loads configuration, applies the
// log level and registers the logging hooks.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := initConfig(c.config, c.cfgFile); err != nil {
		return err
	}
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	c.Logger.Debug(appName, "version", buildinfo.Version, "commit", buildinfo.Commit, "config", c.config.ConfigFileUsed())

	hooks := newLogHooks(c.Logger)
	observability.SetScanHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// interactive reports whether status animations should be drawn.
func (c *CLI) interactive() bool {
	f, ok := c.stderr.(*os.File)
	return ok && isTerminal(f) && !c.verbose
}
