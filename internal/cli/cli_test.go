package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/internal/cli"
	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/markdown"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

var testInfo = cli.BuildInfo{
	Version: "test-version",
	Commit:  "test-commit",
	Date:    "test-date",
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	require.NotNil(t, cmd)

	assert.Equal(t, "mdnorm", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing global flag %s", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)

	for _, args := range [][]string{{"normalize"}, {"ast"}, {"init"}, {"version"}} {
		sub, _, err := cmd.Find(args)
		require.NoError(t, err, args)
		assert.NotEqual(t, cmd, sub, "expected %v to resolve to a subcommand", args)
	}

	sub, _, err := cmd.Find([]string{"ast"})
	require.NoError(t, err)
	assert.Equal(t, "normalize", sub.Name())
}

func TestNormalizeFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	sub, _, err := cmd.Find([]string{"normalize"})
	require.NoError(t, err)

	for _, name := range []string{
		"format", "jobs", "ignore", "no-gfm", "breaks", "no-linkify", "no-math",
		"front-matter", "detect-language", "line", "output-dir", "strict",
		"watch", "stdin", "compact",
	} {
		assert.NotNil(t, sub.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "mdnorm")
	assert.Contains(t, stdout.String(), "test-version")
	assert.Contains(t, stdout.String(), "test-commit")
}

func TestNormalizeHelp(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"normalize", "--help"})

	require.NoError(t, cmd.Execute())
	out := stdout.String()
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Aliases:")
	assert.Contains(t, out, "output-dir")
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		file     string
		contains string
	}{
		{name: "yaml", args: nil, file: ".mdnorm.yml", contains: "gfm: true"},
		{name: "full yaml", args: []string{"--full"}, file: "full.yml", contains: "detect_language"},
		{name: "json", args: []string{"--format", "json"}, file: ".mdnorm.json", contains: `"gfm": true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			cmd := cli.NewRootCommand(testInfo)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(append([]string{"init", "--output", path}, tt.args...))

			require.NoError(t, cmd.Execute())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestInitCommand_ExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".mdnorm.yml")
	require.NoError(t, os.WriteFile(path, []byte("math: false\n"), 0o644))

	run := func(args ...string) error {
		cmd := cli.NewRootCommand(testInfo)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"init", "--output", path}, args...))
		return cmd.Execute()
	}

	err := run()
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, run("--force"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "math: false\n", string(data))
}

func TestInitCommand_InvalidFormat(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x")})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	warned := runner.FileOutcome{
		Path:        "a.md",
		Diagnostics: []markdown.Diagnostic{{Severity: config.SeverityWarning, Line: 1, Message: "w"}},
	}
	clean := runner.FileOutcome{Path: "b.md"}
	failed := runner.FileOutcome{Path: "c.md", Error: fsutil.ErrNotFound}

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "nil", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: runner.Collect(clean), want: cli.ExitSuccess},
		{name: "diagnostics are not failures", result: runner.Collect(warned), want: cli.ExitSuccess},
		{name: "strict diagnostics", result: runner.Collect(warned), strict: true, want: cli.ExitDiagnostics},
		{name: "file errors", result: runner.Collect(clean, failed), want: cli.ExitFileErrors},
		{name: "file errors win over strict", result: runner.Collect(warned, failed), strict: true, want: cli.ExitFileErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.strict))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		want   int
		signal bool
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "diagnostics", err: cli.ErrDiagnosticsFound, want: cli.ExitDiagnostics, signal: true},
		{name: "failed files", err: cli.ErrFilesFailed, want: cli.ExitFileErrors, signal: true},
		{name: "usage", err: fmt.Errorf("%w: bad", cli.ErrUsage), want: cli.ExitInvalidUsage},
		{name: "config", err: fmt.Errorf("%w: bad", cli.ErrConfig), want: cli.ExitConfigError},
		{name: "missing path", err: fmt.Errorf("stat x: %w", fs.ErrNotExist), want: cli.ExitIOError},
		{name: "permission", err: fsutil.ErrPermissionDenied, want: cli.ExitIOError},
		{name: "other", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
			assert.Equal(t, tt.signal, cli.IsSignal(tt.err))
		})
	}
}

func TestErrorFromExitCode(t *testing.T) {
	t.Parallel()

	require.NoError(t, cli.ErrorFromExitCode(cli.ExitSuccess))
	require.ErrorIs(t, cli.ErrorFromExitCode(cli.ExitDiagnostics), cli.ErrDiagnosticsFound)
	require.ErrorIs(t, cli.ErrorFromExitCode(cli.ExitFileErrors), cli.ErrFilesFailed)
}

func TestHelpFormatterStyle(t *testing.T) {
	t.Parallel()

	help := "Usage:\n  mdnorm normalize [paths...] [flags]\n\nFlags:\n  -C, --directory string   run here\n"

	formatter := cli.NewHelpFormatter("never", &bytes.Buffer{})
	assert.Equal(t, help, formatter.Style(help), "plain styles leave text untouched")
}
