package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/qunitlint/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "qunitlint",
		Usage:   "A linter for QUnit test suites",
		Version: version.Version(),
		Description: `qunitlint checks QUnit tests for asynchronous obligations that are
never resolved (stop() without start(), assert.async() callbacks that are
never called) and for deprecated QUnit APIs.

Examples:
  qunitlint lint test/
  qunitlint lint --format json "test/**/*.js"
  qunitlint rules`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: trace, debug, info, warn, error",
				Value:   "warn",
				Sources: cli.EnvVars("QUNITLINT_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging (same as --log-level debug)",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			lintCommand(),
			rulesCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// setupLogging configures logrus for the whole run. Logs always go to
// stderr so they never mix with report output.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	level, err := logrus.ParseLevel(cmd.String("log-level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --log-level %q\n", cmd.String("log-level"))
		return ctx, cli.Exit("", ExitConfigError)
	}
	if cmd.Bool("verbose") && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	return ctx, nil
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
