// Package collection parses mtr collection files: one test-run invocation
// per line, shell-quoted, with blank lines and #-comments ignored.
package collection

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
)

// Invocation is a single parsed collection line.
type Invocation struct {
	// Line number in the collection file, 1-based
	Line int
	// Tokenized arguments; Args[0] is the tool to run
	Args []string
	// Value of the line's own --comment option, empty if absent
	Comment string
	// Value of the line's own --vardir option, empty if absent
	Vardir string
}

// Load reads and parses a collection file.
func Load(path string) ([]Invocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}
	defer f.Close()

	invs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return invs, nil
}

// Parse parses collection lines from an io.Reader. Blank lines and lines
// whose first non-space character is '#' are skipped. Every other line is
// tokenized with shell quoting rules.
func Parse(reader io.Reader) ([]Invocation, error) {
	var invs []Invocation

	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(args) == 0 {
			continue
		}

		invs = append(invs, Invocation{
			Line:    lineNo,
			Args:    args,
			Comment: OptionValue(args, "comment", ""),
			Vardir:  OptionValue(args, "vardir", ""),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	return invs, nil
}

// OptionValue scans args for the value of option name, accepting both
// "--name=value" and "--name value". The last occurrence wins, matching
// the tool's own flag semantics. It returns def when the option is absent
// or has no value; a following token that is itself a flag is never taken
// as the value.
func OptionValue(args []string, name, def string) string {
	flag := "--" + name
	value := def
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == flag:
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				i++
				value = args[i]
			}
		case strings.HasPrefix(arg, flag+"="):
			value = arg[len(flag)+1:]
		}
	}
	return value
}
