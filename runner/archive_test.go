package runner

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// listArchive returns the entry names and regular-file contents of a
// .tar.gz produced by archiveDir.
func listArchive(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var names []string
	contents := make(map[string]string)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			contents[hdr.Name] = string(data)
		}
	}
	sort.Strings(names)
	return names, contents
}

func TestArchiveDirRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vardir := filepath.Join(dir, "var-main")
	require.NoError(t, os.MkdirAll(filepath.Join(vardir, "log"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vardir, "my.cnf"), []byte("[mysqld]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(vardir, "log", "mysqld.err"), []byte("ready\n"), 0o644))

	dest := filepath.Join(dir, "var-main.tar.gz")
	require.NoError(t, archiveDir(vardir, dest))

	// The original tree is gone, the archive holds exactly its file set.
	require.NoDirExists(t, vardir)

	names, contents := listArchive(t, dest)
	require.Equal(t, []string{"log/", "log/mysqld.err", "my.cnf"}, names)
	require.Equal(t, "[mysqld]\n", contents["my.cnf"])
	require.Equal(t, "ready\n", contents["log/mysqld.err"])
}

func TestArchiveDirEmpty(t *testing.T) {
	dir := t.TempDir()
	vardir := filepath.Join(dir, "var-empty")
	require.NoError(t, os.Mkdir(vardir, 0o755))

	dest := filepath.Join(dir, "var-empty.tar.gz")
	require.NoError(t, archiveDir(vardir, dest))
	require.NoDirExists(t, vardir)

	names, _ := listArchive(t, dest)
	require.Empty(t, names)
}

func TestArchiveDirSymlink(t *testing.T) {
	dir := t.TempDir()
	vardir := filepath.Join(dir, "var-link")
	require.NoError(t, os.Mkdir(vardir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vardir, "target"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink("target", filepath.Join(vardir, "alias")))

	dest := filepath.Join(dir, "var-link.tar.gz")
	require.NoError(t, archiveDir(vardir, dest))

	names, _ := listArchive(t, dest)
	require.Equal(t, []string{"alias", "target"}, names)
}
