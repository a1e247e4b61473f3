package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, args...)
	return out, err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgFile = ""
	showMillis = false

	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := Execute()
	return out.String(), stderr.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsql.toml")
	require.NoError(t, writeFile(path, "time_zone = \"UTC\"\nquiet = true\n"))
	return path
}

func TestEscapeCommands(t *testing.T) {
	out, err := run(t, "date", "2013-1-1")
	require.NoError(t, err)
	assert.Equal(t, "2013-01-01\n", out)

	out, err = run(t, "time", "9:5:3")
	require.NoError(t, err)
	assert.Equal(t, "09:05:03\n", out)

	out, err = run(t, "timestamp", "--millis", "1970-1-1 0:0:1.5")
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01 00:00:01.5\t1500\n", out)

	out, err = run(t, "date", "2013-01-01", "nope")
	assert.Error(t, err)
	assert.Equal(t, "2013-01-01\n", out)
}

func TestErrorsReportedOnce(t *testing.T) {
	_, stderr, err := runWithStderr(t, "date", "2013-13-01")
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "Error:"))
	assert.Contains(t, stderr, `"2013-13-01"`)

	_, stderr, err = runWithStderr(t, "date", "2013-13-01", "2013-1-1", "x")
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(stderr, "Error:"))

	_, stderr, err = runWithStderr(t, "types", "9999")
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "Error:"))

	_, stderr, err = runWithStderr(t, "no-such-command")
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "Error:"))
}

func TestTypesCommand(t *testing.T) {
	out, err := run(t, "types", "varchar", "93")
	require.NoError(t, err)
	assert.Equal(t, "    12  VARCHAR\n    93  TIMESTAMP\n", out)

	_, err = run(t, "types", "9999")
	assert.Error(t, err)

	out, err = run(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "  2014  TIMESTAMP_WITH_TIMEZONE\n")
}

func TestStateCommand(t *testing.T) {
	out, err := run(t, "state", "HYT00", "42000")
	require.NoError(t, err)
	assert.Equal(t,
		"HYT00\ttimeout < transient < sql exception\ttransient=true recoverable=false\n"+
			"42000\tsyntax error or access rule violation < non-transient < sql exception\ttransient=false recoverable=false\n",
		out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jsql v"+Version)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
