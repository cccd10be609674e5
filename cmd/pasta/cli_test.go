package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommandAcceptsRoundTrippableFile(t *testing.T) {
	path := writeTemp(t, "x = 1  # keep\n")

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok "+path)
}

func TestCheckCommandFailsOnUnparsableFile(t *testing.T) {
	path := writeTemp(t, "def f(:\n")

	_, err := execute(t, "check", path)
	require.Error(t, err)
	code, ok := err.(exitError)
	require.True(t, ok, "error = %T", err)
	assert.Equal(t, exitDiff, int(code))
}

func TestSplitImportCommand(t *testing.T) {
	path := writeTemp(t, "import aaa, bbb, ccc\n")

	out, err := execute(t, "split-import", path, "bbb")
	require.NoError(t, err)
	assert.Equal(t, "import aaa, ccc\nimport bbb\n", out)
}

func TestSplitImportCommandWriteInPlace(t *testing.T) {
	path := writeTemp(t, "import aaa, bbb\n")

	_, err := execute(t, "split-import", "--write", path, "bbb")
	require.NoError(t, err)

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "import aaa\nimport bbb\n", string(got))
}

func TestSplitImportCommandUnknownName(t *testing.T) {
	path := writeTemp(t, "import aaa, bbb\n")

	_, err := execute(t, "split-import", path, "nope")
	assert.Error(t, err)
}

func TestRefsCommand(t *testing.T) {
	path := writeTemp(t, "import aaa.bbb\nx = aaa.bbb.thing\n")

	out, err := execute(t, "refs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "aaa\t")
	assert.Contains(t, out, "aaa.bbb\t")
}
