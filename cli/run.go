package cli

// This file contains the run command: flag resolution and validation,
// preload handling, driving the runner and recording batch history.

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtrbatch/mtrbatch/collection"
	"github.com/mtrbatch/mtrbatch/exitcodes"
	"github.com/mtrbatch/mtrbatch/history"
	"github.com/mtrbatch/mtrbatch/model"
	"github.com/mtrbatch/mtrbatch/runner"
)

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()

	// Defaults file first, explicit flags on top.
	cfg := fileConfig{}
	if path := ctx.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read config: %v", err), exitcodes.ConfigError)
		}
		if cfg, err = parseFileConfig(data); err != nil {
			return cli.Exit(err.Error(), exitcodes.UsageError)
		}
	}
	if ctx.IsSet("collection") {
		cfg.Collection = ctx.String("collection")
	}
	if ctx.IsSet("vardir-root") {
		cfg.VardirRoot = ctx.String("vardir-root")
	}
	if ctx.IsSet("port-base") {
		cfg.PortBase = ctx.Int("port-base")
	}
	if ctx.IsSet("results-dir") {
		cfg.ResultsDir = ctx.String("results-dir")
	}
	if ctx.IsSet("preload") {
		cfg.Preload = ctx.String("preload")
	}
	if ctx.IsSet("junit") {
		cfg.JUnit = ctx.Bool("junit")
	}

	if cfg.Collection == "" {
		return cli.Exit("missing required option: --collection", exitcodes.UsageError)
	}
	if cfg.ResultsDir == "" {
		return cli.Exit("missing required option: --results-dir", exitcodes.UsageError)
	}
	if cfg.PortBase == 0 {
		return cli.Exit("missing required option: --port-base", exitcodes.UsageError)
	}
	if err := runner.ValidatePortBase(cfg.PortBase); err != nil {
		return cli.Exit(err.Error(), exitcodes.UsageError)
	}
	if err := runner.ValidateResultsDir(cfg.ResultsDir); err != nil {
		return cli.Exit(err.Error(), exitcodes.ConfigError)
	}

	var env []string
	if cfg.Preload != "" {
		var err error
		if env, err = runner.Preload(cfg.Preload); err != nil {
			return cli.Exit(err.Error(), exitcodes.ConfigError)
		}
		a.logger.Info().
			Str("hook", cfg.Preload).
			Int("vars", len(env)).
			Msg("Preload hook applied")
	}

	invs, err := collection.Load(cfg.Collection)
	if err != nil {
		return cli.Exit(err.Error(), exitcodes.ConfigError)
	}
	a.logger.Info().
		Str("collection", cfg.Collection).
		Int("invocations", len(invs)).
		Int("port_base", cfg.PortBase).
		Msg("Collection loaded")

	extraArgs := removeFirstDashDash(ctx.Args().Slice())

	// Generate random 16-byte ID
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return fmt.Errorf("failed to generate batch ID: %w", err)
	}

	batch := &model.Batch{
		ID:         hex.EncodeToString(idBytes),
		Timestamp:  startTime,
		Args:       os.Args,
		Collection: cfg.Collection,
		PortBase:   cfg.PortBase,
		ResultsDir: cfg.ResultsDir,
	}

	r := runner.New(a.logger, runner.Config{
		Invocations: invs,
		VardirRoot:  cfg.VardirRoot,
		PortBase:    cfg.PortBase,
		ResultsDir:  cfg.ResultsDir,
		LogPrefix:   ctx.String("log-prefix"),
		JUnit:       cfg.JUnit,
		ExtraArgs:   extraArgs,
		Env:         env,
	})

	var results []model.InvocationResult
	var runErr error
	defer func() {
		batch.Invocations = results
		batch.Interrupted = r.Interrupted()
		batch.Duration = time.Since(startTime)
		batch.ExitCode = exitcodes.Success
		if runErr != nil {
			batch.ExitCode = exitcodes.RunFailure
		}

		// Record the batch (non-fatal if it fails)
		if runDir, err := history.Record(batch); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record batch history")
		} else {
			a.logger.Debug().Str("dir", runDir).Str("id", batch.ID).Msg("Recorded batch")
		}
	}()

	results, runErr = r.Run()
	if runErr != nil {
		return cli.Exit(runErr.Error(), exitcodes.RunFailure)
	}

	a.logger.Info().
		Int("invocations", len(results)).
		Bool("interrupted", batch.Interrupted).
		Dur("duration", batch.Duration).
		Msg("Batch completed")
	return nil
}

// removeFirstDashDash drops a leading "--" separator from passthrough args.
func removeFirstDashDash(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
