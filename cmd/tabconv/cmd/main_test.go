package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tabconv/internal/parser"
)

// resetFlags restores every package-level flag variable to its default.
func resetFlags() {
	cfgFile = ""
	verbose = false
	quiet = false
	logFormat = ""
	encoding = ""
	delimiter = ""
	dataKey = ""
	itemTag = ""
	rootTag = ""
	parseShowAll = false
	convertOutput = ""
	convertVerify = false
	versionShort = false
}

// runCLI executes the root command with args and returns stdout, stderr and
// the exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	code := Execute()
	return stdout.String(), stderr.String(), code
}

// writeFile creates name under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeConfig writes a config file that keeps logs out of the way.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	return writeFile(t, "tabconv.yaml", "logging:\n  level: error\n"+body)
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, Commit, "Commit should not be empty")
}

func TestCLIFlagsVariables(t *testing.T) {
	resetFlags()
	assert.Equal(t, "", cfgFile)
	assert.False(t, verbose)
	assert.False(t, quiet)
	assert.Equal(t, "", encoding)
	assert.Equal(t, "", delimiter)
	assert.False(t, parseShowAll)
	assert.False(t, convertVerify)
}

func TestExitCode(t *testing.T) {
	parseErr := &parser.Error{Kind: parser.ErrFormatInvalid, Path: "x.csv"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", usageError{errors.New("accepts 1 arg(s), received 0")}, ExitUsage},
		{"unknown command", errors.New(`unknown command "frobnicate" for "tabconv"`), ExitUsage},
		{"parse error", parseErr, ExitParseError},
		{"wrapped parse error", fmt.Errorf("failed: %w", parseErr), ExitParseError},
		{"unexpected", errors.New("disk on fire"), ExitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExecute_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"missing argument", []string{"parse"}},
		{"too many arguments", []string{"info", "a.csv", "b.csv"}},
		{"unknown flag", []string{"parse", "--bogus", "a.csv"}},
		{"missing output", []string{"convert", "a.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCLI(t, tt.args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "Error:")
			assert.Contains(t, stderr, "--help")
		})
	}
}

func TestExecute_InvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "parsing:\n  csv:\n    delimiter: \";;\"\n")
	csv := writeFile(t, "a.csv", "a\n1\n")

	_, stderr, code := runCLI(t, "parse", csv, "-c", cfg)
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "parsing.csv.delimiter")
}

func TestExecute_MissingConfigFile(t *testing.T) {
	csv := writeFile(t, "a.csv", "a\n1\n")

	_, stderr, code := runCLI(t, "parse", csv, "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, ExitUnexpected, code)
	assert.Contains(t, stderr, "failed to load config")
}
