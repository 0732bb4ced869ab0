package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/mtrbatch/mtrbatch/exitcodes"
	"github.com/mtrbatch/mtrbatch/history"
	"github.com/mtrbatch/mtrbatch/model"
)

func TestRemoveFirstDashDash(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "empty slice",
			in:   []string{},
			want: []string{},
		},
		{
			name: "starts with --",
			in:   []string{"--", "--force", "--retry=0"},
			want: []string{"--force", "--retry=0"},
		},
		{
			name: "no --",
			in:   []string{"--force", "--retry=0"},
			want: []string{"--force", "--retry=0"},
		},
		{
			name: "only --",
			in:   []string{"--"},
			want: []string{},
		},
		{
			name: "-- in middle",
			in:   []string{"--force", "--", "--retry=0"},
			want: []string{"--force", "--", "--retry=0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeFirstDashDash(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("removeFirstDashDash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "results")
	require.NoError(t, os.Mkdir(results, 0o755))

	tool := filepath.Join(dir, "fake-mtr.sh")
	require.NoError(t, os.WriteFile(tool, []byte(`#!/bin/sh
d=""
for a in "$@"; do
  case "$a" in
    --vardir=*) d="${a#--vardir=}";;
  esac
done
if [ -n "$d" ]; then mkdir -p "$d"; echo log > "$d/mysqld.err"; fi
echo "all tests passed"
exit 0
`), 0o755))

	coll := filepath.Join(dir, "collection.txt")
	require.NoError(t, os.WriteFile(coll, []byte(fmt.Sprintf(`# sample collection
%s --comment=main --vardir=var-main
%s --comment=rpl --vardir=var-rpl
`, tool, tool)), 0o644))

	// Port base comes from the defaults file, the rest from flags.
	cfg := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("port_base: 5010\njunit: true\n"), 0o644))

	app := New()
	err := app.Run([]string{
		AppName, "run",
		"--config", cfg,
		"--collection", coll,
		"--vardir-root", dir,
		"--results-dir", results,
	})
	require.NoError(t, err)

	for _, comment := range []string{"main", "rpl"} {
		require.FileExists(t, filepath.Join(results, "mtr-"+comment+".log"))
		require.FileExists(t, filepath.Join(results, "var-"+comment+".tar.gz"))
	}

	entries, err := history.LoadEntries(zerolog.Nop(), history.Root(results))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 0, entries[0].Batch.ExitCode)
	require.Equal(t, 5010, entries[0].Batch.PortBase)
	require.Len(t, entries[0].Batch.Invocations, 2)
}

func TestRunFatalRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "results")
	require.NoError(t, os.Mkdir(results, 0o755))

	tool := filepath.Join(dir, "crashing.sh")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\necho boom\nexit 2\n"), 0o755))

	coll := filepath.Join(dir, "collection.txt")
	require.NoError(t, os.WriteFile(coll,
		[]byte(fmt.Sprintf("%s --comment=broken\n", tool)), 0o644))

	app := New()
	// Keep urfave from exiting the test process on the error path.
	app.cli.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run([]string{
		AppName, "run",
		"--collection", coll,
		"--results-dir", results,
		"--port-base", "5010",
	})
	require.Error(t, err)
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	require.Equal(t, exitcodes.RunFailure, exitErr.ExitCode())

	// The aborted batch is still recorded, with its fatal invocation.
	entries, err := history.LoadEntries(zerolog.Nop(), history.Root(results))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, exitcodes.RunFailure, entries[0].Batch.ExitCode)
	require.Len(t, entries[0].Batch.Invocations, 1)
	require.Equal(t, model.OutcomeFatal, entries[0].Batch.Invocations[0].Outcome)
}
