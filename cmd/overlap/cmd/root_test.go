package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_PrintsReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one two three four"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("zero two three five"), 0o644))

	out, err := execute(t, "-u", dir, "-m", "equal", "-n", "2", "-s", "0", "--cli")

	require.NoError(t, err)
	assert.Contains(t, out, "REPORT: UNTRUSTED ID a.txt vs UNTRUSTED ID b.txt")
	assert.Contains(t, out, "Identical fragment detected: two three")
	assert.Contains(t, out, "END TRUSTED COMPARISON REPORT")
}

func TestRoot_RequiredFlags(t *testing.T) {
	_, err := execute(t, "-m", "equal", "-n", "2", "-s", "0")
	assert.ErrorContains(t, err, "untrusted")

	_, err = execute(t, "-u", t.TempDir(), "-n", "2", "-s", "0")
	assert.ErrorContains(t, err, "metric")
}

func TestRoot_RejectsUnknownMetric(t *testing.T) {
	_, err := execute(t, "-u", t.TempDir(), "-m", "cosine", "-n", "2", "-s", "0")
	assert.Error(t, err)
}
