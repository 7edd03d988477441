// Package commands implements the CLI commands for the kiln asset builder.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	log     LogSink
	metrics MetricsSink

	configPath  string
	logFile     string
	metricsFile string
	debug       bool
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Watch(ctx context.Context, opts app.BuildOptions, window time.Duration) error
	Clean(ctx context.Context, opts app.BuildOptions) error
}

// LogSink is the logger configuration driven by the persistent flags.
type LogSink interface {
	SetVerbose(verbose bool)
	SetFile(path string) error
}

// MetricsSink writes the collected metrics in the Prometheus text format.
type MetricsSink interface {
	WriteFile(path string) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogger lets --debug and --log-file reconfigure log.
func WithLogger(log LogSink) Option {
	return func(c *CLI) { c.log = log }
}

// WithMetrics lets --metrics-file export m.
func WithMetrics(m MetricsSink) Option {
	return func(c *CLI) { c.metrics = m }
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "An incremental asset builder",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", config.DefaultFileName, "Build file to load")
	flags.BoolVar(&c.debug, "debug", false, "Log debug messages")
	flags.StringVar(&c.logFile, "log-file", "", "Also write the log to a rotated file")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "Write build metrics to a file when done")
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return c.setup()
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) setup() error {
	if c.log == nil {
		return nil
	}
	c.log.SetVerbose(c.debug)
	if c.logFile != "" {
		return c.log.SetFile(c.logFile)
	}
	return nil
}

// finish exports the metrics of a run. An export failure is only reported when the run succeeded.
func (c *CLI) finish(runErr error) error {
	if c.metricsFile == "" || c.metrics == nil {
		return runErr
	}
	if err := c.metrics.WriteFile(c.metricsFile); err != nil && runErr == nil {
		return err
	}
	return runErr
}
