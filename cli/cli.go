package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "mtrbatch"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Run mysql-test-run collections in sequence",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Execute every invocation in a collection, one at a time",
		ArgsUsage: "[-- extra mtr arguments…]",
		Action:    app.run,
		Description: `Execute a collection of mysql-test-run invocations sequentially.

Each invocation gets its output teed to <results-dir>/mtr-<comment>.log,
its working directory resolved under --vardir-root and archived to
<results-dir>/var-<comment>.tar.gz afterwards, and the shared --port-base.
An invocation exiting 1 with failing test cases is recorded and the batch
continues; any other failure aborts the batch.

Arguments after -- are appended to every invocation verbatim.

Exit codes:
  0  collection exhausted, or cleanly interrupted between invocations
  3  invalid option values
  4  missing or unusable files/directories
  5  fatal invocation outcome`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "collection",
				Aliases: []string{"c"},
				Usage:   "Collection file, one invocation per line",
			},
			&cli.StringFlag{
				Name:  "vardir-root",
				Usage: "Root directory under which each invocation's vardir is resolved",
			},
			&cli.IntFlag{
				Name:  "port-base",
				Usage: "Port base shared by all invocations (5001-32767, multiple of 10)",
			},
			&cli.StringFlag{
				Name:    "results-dir",
				Aliases: []string{"r"},
				Usage:   "Existing writable directory receiving logs and archives",
			},
			&cli.StringFlag{
				Name:  "log-prefix",
				Usage: "Prefix for per-invocation log file names",
				Value: "mtr",
			},
			&cli.StringFlag{
				Name:  "preload",
				Usage: "Shell hook evaluated once before the batch; its environment is passed to every invocation",
			},
			&cli.BoolFlag{
				Name:  "junit",
				Usage: "Inject junit reporting options into every invocation",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file supplying defaults for the flags above",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "parse",
		Usage:  "Parse a collection and show its invocations without running them",
		Action: app.parse,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "collection",
				Aliases: []string{"c"},
				Usage:   "Collection file, one invocation per line",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous batch runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results-dir",
				Aliases: []string{"r"},
				Usage:   "Results directory whose batch history to list",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Filter by collection file substring",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
