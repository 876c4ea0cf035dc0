// Package cmd implements the domtest command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

//nolint:gochecknoglobals
var (
	stdoutTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	succeedColor = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
)

// rootCommand keeps all fields needed for the main domtest command.
type rootCommand struct {
	ctx     context.Context
	logger  *logrus.Logger
	cmd     *cobra.Command
	verbose bool
	quiet   bool
	noColor bool
	logFmt  string
}

func newRootCommand(ctx context.Context, logger *logrus.Logger) *rootCommand {
	c := &rootCommand{ctx: ctx, logger: logger}
	// the base command when called without any subcommands.
	c.cmd = &cobra.Command{
		Use:               "domtest",
		Short:             "a DOM fixture test harness",
		Long:              "domtest loads HTML fixtures with their nested frames and stylesheets,\nthe way an accessibility-rule test run would, and reports the outcome.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.PersistentFlags().AddFlagSet(c.rootCmdPersistentFlagSet())
	c.cmd.AddCommand(getRunCmd(ctx, c))
	return c
}

func (c *rootCommand) persistentPreRunE(*cobra.Command, []string) error {
	if err := c.setupLogging(); err != nil {
		return err
	}
	if c.noColor {
		color.NoColor = true
	}
	return nil
}

func (c *rootCommand) rootCmdPersistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "disable all logging below the error level")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.logFmt, "log-format", "", `log output format ("text" or "json")`)
	return flags
}

func (c *rootCommand) setupLogging() error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}

	level := logrus.InfoLevel
	if cfg.LogLevel.Valid {
		level, err = logrus.ParseLevel(cfg.LogLevel.String)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	switch {
	case c.verbose:
		level = logrus.DebugLevel
	case c.quiet || cfg.Quiet.ValueOrZero():
		level = logrus.ErrorLevel
	}
	c.logger.SetLevel(level)

	switch c.logFmt {
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		c.logger.SetFormatter(&logrus.TextFormatter{ForceColors: stdoutTTY && !c.noColor})
	default:
		return fmt.Errorf("unsupported log format %q", c.logFmt)
	}
	return nil
}

// Execute adds all child commands to the root command, sets flags
// appropriately and runs it. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := &logrus.Logger{
		Out:       os.Stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	c := newRootCommand(ctx, logger)
	if err := c.cmd.Execute(); err != nil {
		logger.WithError(err).Error("run failed")
		os.Exit(1)
	}
}
