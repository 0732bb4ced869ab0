// Package exitcodes defines the standard exit codes used by mtrbatch.
package exitcodes

// Exit code constants used by mtrbatch
// These constants define the exit codes that the tool uses to indicate
// various states when it exits:
//
//   - Success (0): Used when the collection ran to completion, including a
//     clean interrupt between invocations (partial completion is not an error)
//   - UsageError (3): Used for invalid option values (bad port base, missing
//     required flags, malformed defaults file)
//   - ConfigError (4): Used for missing or unusable paths (collection file,
//     results directory, preload hook)
//   - RunFailure (5): Used when an invocation had a fatal outcome and the
//     batch was aborted
//
// Codes 1 and 2 are left to urfave/cli's own error paths and to runtime
// panics, so scripting callers can tell them apart from ours.
const (
	Success     = 0 // Collection exhausted or cleanly interrupted
	UsageError  = 3 // Invalid option values
	ConfigError = 4 // Missing or unusable files/directories
	RunFailure  = 5 // Fatal invocation outcome
)
