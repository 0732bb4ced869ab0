// Package runner executes a collection of test-run invocations one at a
// time, teeing each tool's output to a per-invocation log, classifying its
// exit status and archiving the working directory it leaves behind.
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"

	"github.com/mtrbatch/mtrbatch/collection"
	"github.com/mtrbatch/mtrbatch/model"
)

// FatalError is returned when an invocation crashed or returned an
// unrecognized exit status, aborting the batch.
type FatalError struct {
	Comment    string
	ExitStatus int
	Err        error // set when the tool could not be started at all
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invocation %q failed to start: %v", e.Comment, e.Err)
	}
	return fmt.Sprintf("invocation %q exited fatally with status %d", e.Comment, e.ExitStatus)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Runner runs a collection sequentially. Invocations share a port base and
// must never overlap.
type Runner struct {
	logger      zerolog.Logger
	cfg         Config
	interrupted atomic.Bool
}

func New(logger zerolog.Logger, cfg Config) *Runner {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.LogPrefix == "" {
		cfg.LogPrefix = "mtr"
	}
	return &Runner{logger: logger, cfg: cfg}
}

// Interrupt marks the batch for a clean stop. The in-flight invocation is
// allowed to finish; the flag is only consulted between invocations.
func (r *Runner) Interrupt() {
	r.interrupted.Store(true)
}

// Interrupted reports whether the batch was stopped early.
func (r *Runner) Interrupted() bool {
	return r.interrupted.Load()
}

// Run executes the collection. It returns the results of every invocation
// that started, including a fatal one. An interrupt between invocations is
// not an error.
func (r *Runner) Run() ([]model.InvocationResult, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			r.logger.Warn().
				Str("signal", sig.String()).
				Msg("Interrupt received, finishing current invocation")
			r.Interrupt()
		case <-done:
		}
	}()

	var results []model.InvocationResult
	for _, inv := range r.cfg.Invocations {
		res, err := r.runOne(inv)
		if res.LogFile != "" {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
		if res.Outcome == model.OutcomeFatal {
			return results, &FatalError{Comment: inv.Comment, ExitStatus: res.ExitStatus}
		}
		if r.interrupted.Load() {
			r.logger.Info().
				Int("completed", len(results)).
				Msg("Stopping on interrupt, remaining invocations skipped")
			break
		}
	}
	return results, nil
}

func (r *Runner) runOne(inv collection.Invocation) (model.InvocationResult, error) {
	start := time.Now()
	res := model.InvocationResult{Comment: inv.Comment}

	vardir := r.effectiveVardir(inv)
	res.Vardir = vardir

	logName := r.cfg.LogPrefix + "-" + inv.Comment + ".log"
	logPath := filepath.Join(r.cfg.ResultsDir, logName)

	// Injected overrides come after the line's own arguments so they win
	// under the tool's last-flag semantics; passthrough args go last of all.
	args := append([]string(nil), inv.Args[1:]...)
	if vardir != "" {
		args = append(args, "--vardir="+vardir)
	}
	args = append(args, fmt.Sprintf("--mtr-port-base=%d", r.cfg.PortBase))
	if r.cfg.JUnit {
		args = append(args,
			"--junit-package="+inv.Comment,
			"--junit-output="+filepath.Join(r.cfg.ResultsDir, "junit-"+inv.Comment+".xml"))
	}
	args = append(args, r.cfg.ExtraArgs...)

	r.logger.Info().
		Str("comment", inv.Comment).
		Str("log", logPath).
		Msg("Starting invocation")
	r.logger.Debug().
		Str("command", shellescape.QuoteCommand(append([]string{inv.Args[0]}, args...))).
		Msg("Composed command line")

	logFile, err := os.Create(logPath)
	if err != nil {
		return res, fmt.Errorf("failed to create log file: %w", err)
	}

	cmd := exec.Command(inv.Args[0], args...)

	// Tee combined output so the operator sees live progress and a log
	// survives for classification.
	output := io.MultiWriter(r.cfg.Output, logFile)
	cmd.Stdout = output
	cmd.Stderr = output

	// Children run in their own process group so a terminal interrupt
	// reaches only the orchestrator, never the in-flight tool.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if r.cfg.Env != nil {
		cmd.Env = r.cfg.Env
	}

	// Only an invocation that actually starts leaves a log behind.
	if err := cmd.Start(); err != nil {
		logFile.Close()
		os.Remove(logPath)
		res.Outcome = model.OutcomeFatal
		res.Duration = time.Since(start)
		return res, &FatalError{Comment: inv.Comment, Err: err}
	}

	runErr := cmd.Wait()
	logFile.Close()
	res.LogFile = logName
	res.Duration = time.Since(start)

	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			res.Outcome = model.OutcomeFatal
			return res, &FatalError{Comment: inv.Comment, Err: runErr}
		}
		res.ExitStatus = exitErr.ExitCode()
	}
	res.Outcome = classify(res.ExitStatus, logPath)

	switch res.Outcome {
	case model.OutcomeSuccess:
		r.logger.Info().
			Str("comment", inv.Comment).
			Msg("Invocation completed successfully")
	case model.OutcomeTestFailure:
		r.logger.Warn().
			Str("comment", inv.Comment).
			Msg("Tests failed, continuing with next invocation")
	case model.OutcomeFatal:
		r.logger.Error().
			Str("comment", inv.Comment).
			Int("exit_status", res.ExitStatus).
			Msg("Fatal invocation outcome, aborting batch")
	}

	// A produced vardir is always archived and removed, whatever the
	// outcome. A missing one is fine, not every run creates it.
	if vardir != "" {
		if _, statErr := os.Stat(vardir); statErr == nil {
			archiveName := "var-" + inv.Comment + ".tar.gz"
			archivePath := filepath.Join(r.cfg.ResultsDir, archiveName)
			if err := archiveDir(vardir, archivePath); err != nil {
				return res, fmt.Errorf("failed to archive %s: %w", vardir, err)
			}
			res.ArchiveFile = archiveName
			r.logger.Info().
				Str("comment", inv.Comment).
				Str("archive", archivePath).
				Msg("Working directory archived")
		} else if !os.IsNotExist(statErr) {
			return res, fmt.Errorf("failed to stat %s: %w", vardir, statErr)
		} else {
			r.logger.Debug().
				Str("comment", inv.Comment).
				Str("vardir", vardir).
				Msg("No working directory produced, skipping archive")
		}
	}

	return res, nil
}

// effectiveVardir resolves the invocation's declared vardir against the
// configured root. A line that declares no vardir gets no override and no
// archiving.
func (r *Runner) effectiveVardir(inv collection.Invocation) string {
	if inv.Vardir == "" {
		return ""
	}
	if r.cfg.VardirRoot != "" {
		return filepath.Join(r.cfg.VardirRoot, inv.Vardir)
	}
	return inv.Vardir
}
