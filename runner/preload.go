package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Preload evaluates the hook script once under sh with allexport set and
// returns the resulting environment, for use as every invocation's
// environment. The variables are also applied to the current process so
// later path handling sees them.
func Preload(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("preload hook: %w", err)
	}

	// env -0 keeps multi-line values intact.
	cmd := exec.Command("/bin/sh", "-c", `set -a; . "$1"; env -0`, "sh", path)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("preload hook %s failed: %w", path, err)
	}

	var env []string
	for _, entry := range bytes.Split(out, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		env = append(env, string(entry))
	}

	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			os.Setenv(k, v)
		}
	}

	return env, nil
}
