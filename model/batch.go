package model

import "time"

// Outcome classifies the result of a single invocation.
type Outcome string

const (
	// OutcomeSuccess means the tool exited 0.
	OutcomeSuccess Outcome = "success"
	// OutcomeTestFailure means the tool exited 1 and its log carries the
	// failing-test-cases marker: tests failed but the tool itself was fine.
	OutcomeTestFailure Outcome = "test-failure"
	// OutcomeFatal means the tool crashed or returned an unrecognized
	// status; the batch is aborted.
	OutcomeFatal Outcome = "fatal"
)

// Batch represents a single mtrbatch run over a collection.
type Batch struct {
	// Unique ID for this batch (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Timestamp when the batch started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Collection file that was executed
	Collection string `json:"collection"`
	// Port base shared by every invocation
	PortBase int `json:"port_base"`
	// Results directory that received logs and archives
	ResultsDir string `json:"results_dir"`
	// Exit code of the batch
	ExitCode int `json:"exit_code"`
	// Duration of the batch
	Duration time.Duration `json:"duration"`
	// Whether the batch stopped early on an interrupt
	Interrupted bool `json:"interrupted,omitempty"`
	// Per-invocation results, in execution order
	Invocations []InvocationResult `json:"invocations,omitempty"`
}

// InvocationResult records what one invocation produced.
type InvocationResult struct {
	// Comment declared by the invocation line (names log and archive files)
	Comment string `json:"comment"`
	// Effective working directory, empty if the line declared none
	Vardir string `json:"vardir,omitempty"`
	// Exit status of the tool
	ExitStatus int `json:"exit_status"`
	// Classified outcome
	Outcome Outcome `json:"outcome"`
	// Log file name (relative to the results directory)
	LogFile string `json:"log_file"`
	// Archive file name, set only if a working directory was archived
	ArchiveFile string `json:"archive_file,omitempty"`
	// Duration of the invocation
	Duration time.Duration `json:"duration"`
}
