package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/internal/logging"
	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/markdown"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

func quietContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug")), &buf
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	ctx, _ := quietContext(t)
	result, err := New(Options{WorkingDir: t.TempDir(), Convert: markdown.DefaultOptions()}).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.False(t, result.HasIssues())
	assert.False(t, result.HasFailures())
}

func TestRun_ConvertsFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.md", "# Title\n\nSome *text*.\n")
	write(t, dir, "b.md", "$$\nx = 1\n")
	write(t, dir, "c.md", "<div>\nopen\n")

	ctx, logs := quietContext(t)
	result, err := New(Options{WorkingDir: dir, Jobs: 2, Convert: markdown.DefaultOptions()}).Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	assert.Equal(t, filepath.Join(dir, "a.md"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.md"), result.Files[1].Path)
	assert.Equal(t, filepath.Join(dir, "c.md"), result.Files[2].Path)

	first := result.Files[0]
	require.NoError(t, first.Error)
	require.NotNil(t, first.Info)
	h1 := mdast.FindByTag(first.Document, mdast.Canonical("h1"))
	require.Len(t, h1, 1)
	assert.Equal(t, "Title", mdast.TextContent(h1[0]))

	assert.Len(t, result.Files[1].Diagnostics, 1)
	assert.Len(t, result.Files[2].Diagnostics, 1)

	stats := result.Stats
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 2, stats.FilesWithIssues)
	assert.Equal(t, 2, stats.DiagnosticsTotal)
	assert.Equal(t, 2, stats.DiagnosticsBySeverity[config.SeverityWarning])
	assert.Positive(t, stats.Nodes.Elements)
	assert.Positive(t, stats.Bytes)
	assert.True(t, result.HasIssues())
	assert.False(t, result.HasFailures())

	assert.Contains(t, logs.String(), "read file")
	assert.Contains(t, logs.String(), filepath.Join(dir, "b.md"))
}

func TestRun_SerialAndParallelAgree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 12 {
		write(t, dir, fmt.Sprintf("doc%02d.md", i), fmt.Sprintf("# Doc %d\n\n> [!NOTE]\n> body %d\n", i, i))
	}

	ctx, _ := quietContext(t)
	serial, err := New(Options{WorkingDir: dir, Jobs: 1, Convert: markdown.DefaultOptions()}).Run(ctx)
	require.NoError(t, err)
	parallel, err := New(Options{WorkingDir: dir, Jobs: 8, Convert: markdown.DefaultOptions()}).Run(ctx)
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Document, parallel.Files[i].Document)
	}
	assert.Equal(t, serial.Stats.Nodes, parallel.Stats.Nodes)
}

func TestRunFiles_ReadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := write(t, dir, "good.md", "ok\n")
	missing := filepath.Join(dir, "missing.md")

	ctx, _ := quietContext(t)
	result, err := New(Options{Convert: markdown.DefaultOptions()}).RunFiles(ctx, []string{good, missing})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	require.Error(t, result.Files[1].Error)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.True(t, result.HasFailures())
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.md", "a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{WorkingDir: dir}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConvertSource(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.Line = 40

	ctx, logs := quietContext(t)
	outcome := New(Options{Convert: opts}).ConvertSource(ctx, "stdin", []byte("text\n\n$$\nabc"))
	require.NoError(t, outcome.Error)
	assert.Nil(t, outcome.Info)
	require.Len(t, outcome.Diagnostics, 1)
	assert.Equal(t, 42, outcome.Diagnostics[0].Line)
	assert.Contains(t, logs.String(), "file=stdin")

	result := Collect(outcome)
	assert.Equal(t, 1, result.Stats.FilesDiscovered)
	assert.Equal(t, 1, result.Stats.DiagnosticsTotal)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Breaks = config.Bool(true)
	cfg.Ignore = []string{"deps/**"}
	cfg.Jobs = 3
	cfg.Line = 7

	opts := OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, []string{"deps/**"}, opts.ExcludeGlobs)
	assert.Equal(t, config.DefaultExtensions, opts.Extensions)
	assert.Equal(t, 3, opts.Jobs)
	assert.True(t, opts.Convert.Breaks)
	assert.Equal(t, 7, opts.Convert.Line)

	assert.Equal(t, markdown.DefaultOptions(), OptionsFromConfig(nil, nil).Convert)
}
