// Package cli implements the heatmaps command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hlstatsx/heatmaps/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the command name shown in usage and version output.
const appName = "heatmaps"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger

	// out receives usage and the batch summary.
	out io.Writer
}

// New creates a new CLI instance logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetOutput redirects usage and summary output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the heatmaps command.
//
// The command takes the database connection and web root as positional
// arguments. With the wrong number of arguments it prints usage and exits
// successfully.
func (c *CLI) RootCommand() *cobra.Command {
	var flags generateFlags

	root := &cobra.Command{
		Use:   appName + " [flags] <host> <port> <user> <password> <database> <webPath>",
		Short: "Render hlstats kill heatmaps",
		Long: `Heatmaps reads frag and teamkill positions from an hlstats database, plots
them over each configured map's overview image and writes the result, plus an
optional thumbnail, into the hlstats web tree.`,
		Version:       buildinfo.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != connArgCount {
				cmd.SetOut(c.out)
				return cmd.Usage()
			}
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), args, cfg)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags.register(root)

	return root
}
