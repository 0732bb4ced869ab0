package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/mtrbatch/mtrbatch/collection"
)

// mtr reserves a block of ports per port base; bases outside this window
// or not aligned to 10 would collide with other servers.
const (
	portBaseMin = 5001
	portBaseMax = 32767
)

// Config describes one batch over a collection.
type Config struct {
	// Invocations to run, in order
	Invocations []collection.Invocation
	// Root under which each invocation's relative vardir is resolved;
	// empty means vardirs are taken as declared
	VardirRoot string
	// Port base passed to every invocation
	PortBase int
	// Directory receiving logs and archives; must exist and be writable
	ResultsDir string
	// Prefix for per-invocation log file names, defaults to "mtr"
	LogPrefix string
	// Inject junit reporting options per invocation
	JUnit bool
	// Arguments appended verbatim to every invocation, last of all
	ExtraArgs []string
	// Environment for invocations; nil inherits the process environment
	Env []string
	// Live output destination for the tee, defaults to os.Stdout
	Output io.Writer
}

// ValidatePortBase checks the shared port base: within 5001-32767
// inclusive and a multiple of 10.
func ValidatePortBase(port int) error {
	if port < portBaseMin || port > portBaseMax {
		return fmt.Errorf("port base %d out of range %d-%d", port, portBaseMin, portBaseMax)
	}
	if port%10 != 0 {
		return fmt.Errorf("port base %d is not a multiple of 10", port)
	}
	return nil
}

// ValidateResultsDir checks that dir exists, is a directory and is
// writable, by creating and removing a probe file.
func ValidateResultsDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("results dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("results dir %s is not a directory", dir)
	}
	probe, err := os.CreateTemp(dir, ".mtrbatch-probe-")
	if err != nil {
		return fmt.Errorf("results dir %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
