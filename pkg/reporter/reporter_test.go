package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/markdown"
	"github.com/voughtdq/ex-doc/pkg/mdast"
	"github.com/voughtdq/ex-doc/pkg/reporter"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

var workDir = filepath.Join(string(filepath.Separator), "work")

func sampleResult() *runner.Result {
	return runner.Collect(
		runner.FileOutcome{
			Path: filepath.Join(workDir, "guides", "intro.md"),
			Document: mdast.Document{
				mdast.El("h1", nil, mdast.NewText("Intro")),
				mdast.El("p", nil, mdast.NewText("a < b")),
			},
			Info: &fsutil.FileInfo{Size: 1536},
			FrontMatter: map[string]any{
				"title": "Intro",
				"meta":  map[any]any{"order": 1, "tags": []any{"a", map[any]any{"k": "v"}}},
			},
		},
		runner.FileOutcome{
			Path:     filepath.Join(workDir, "broken.md"),
			Document: mdast.Document{mdast.NewText("$$")},
			Diagnostics: []markdown.Diagnostic{
				{Severity: config.SeverityWarning, Line: 4, Message: "Unterminated display math: missing closing $$"},
			},
		},
		runner.FileOutcome{
			Path:  filepath.Join(workDir, "gone.md"),
			Error: errors.New("file not found"),
		},
	)
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()
	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), n
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "sarif"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sarif")
}

func TestNew_DefaultsToJSON(t *testing.T) {
	t.Parallel()

	rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.IsType(t, &reporter.JSONReporter{}, rep)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatJSON, WorkingDir: workDir}, sampleResult())
	assert.Equal(t, 1, n)
	assert.Contains(t, out, `"a < b"`, "HTML characters are not escaped")

	var decoded struct {
		Version string `json:"version"`
		Files   []struct {
			Path        string            `json:"path"`
			Document    json.RawMessage   `json:"document"`
			Diagnostics []json.RawMessage `json:"diagnostics"`
			FrontMatter map[string]any    `json:"frontMatter"`
			Error       string            `json:"error"`
		} `json:"files"`
		Summary reporter.JSONSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, reporter.SchemaVersion, decoded.Version)
	require.Len(t, decoded.Files, 3)
	assert.Equal(t, filepath.Join("guides", "intro.md"), decoded.Files[0].Path)
	assert.Equal(t, "Intro", decoded.Files[0].FrontMatter["title"])
	assert.Equal(t, map[string]any{"order": float64(1), "tags": []any{"a", map[string]any{"k": "v"}}},
		decoded.Files[0].FrontMatter["meta"])

	doc, err := mdast.UnmarshalDocument(decoded.Files[0].Document)
	require.NoError(t, err)
	assert.Equal(t, "Intro", mdast.TextContent(doc[0]))

	assert.Len(t, decoded.Files[1].Diagnostics, 1)
	assert.Equal(t, "file not found", decoded.Files[2].Error)
	assert.JSONEq(t, "[]", string(decoded.Files[2].Document))

	assert.Equal(t, 2, decoded.Summary.FilesConverted)
	assert.Equal(t, 1, decoded.Summary.FilesErrored)
	assert.Equal(t, 1, decoded.Summary.FilesWithIssues)
	assert.Equal(t, map[string]int{"warning": 1}, decoded.Summary.BySeverity)
	assert.Equal(t, 2, decoded.Summary.Elements)
	assert.Equal(t, 3, decoded.Summary.Texts)
}

func TestJSONReporter_CompactAndNil(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatJSON, Compact: true}, nil)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"files":[]`)
}

func TestMarshalFile(t *testing.T) {
	t.Parallel()

	outcome := runner.FileOutcome{
		Path:     "a.md",
		Document: mdast.Document{mdast.El("p", nil, mdast.NewText("x & y"))},
	}

	data, err := reporter.MarshalFile(outcome, true)
	require.NoError(t, err)
	assert.Equal(t,
		`{"path":"a.md","document":[{"type":"element","tag":"p","children":[{"type":"text","content":"x & y"}]}],"diagnostics":[]}`+"\n",
		string(data))

	pretty, err := reporter.MarshalFile(outcome, false)
	require.NoError(t, err)
	assert.Greater(t, bytes.Count(pretty, []byte("\n")), 1)
	assert.Contains(t, string(pretty), `"content": "x & y"`)
}

func TestTreeReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatTree, WorkingDir: workDir, ShowSummary: true}, sampleResult())
	assert.Equal(t, 1, n)

	intro := filepath.Join("guides", "intro.md")
	assert.Contains(t, out, intro+"\n<h1>\n  \"Intro\"\n<p>\n  \"a < b\"\n")
	assert.Contains(t, out, "broken.md (1 issue)\n\"$$\"\n  broken.md:4  warning  Unterminated display math")
	assert.Contains(t, out, "gone.md: error: file not found")
	assert.Contains(t, out, "1 issue (1 warning) in 1 file, 2 files converted, 1 failed\n")
}

func TestTreeReporter_Empty(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatTree, ShowSummary: true}, runner.Collect())
	assert.Equal(t, 0, n)
	assert.Equal(t, "No files to convert.\n", out)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatSummary, WorkingDir: workDir}, sampleResult())
	assert.Equal(t, 1, n)

	assert.Contains(t, out, "Files\n")
	assert.Contains(t, out, "1.5 kB")
	assert.Regexp(t, `broken\.md\s+-\s+0\s+0\s+1\n`, out)
	assert.Regexp(t, `gone\.md\s+failed\n`, out)
	assert.Contains(t, out, "Files converted:   2")
	assert.Contains(t, out, "Files failed:      1")
}

func TestSummaryReporter_Nil(t *testing.T) {
	t.Parallel()

	out, n := report(t, reporter.Options{Format: config.FormatSummary}, nil)
	assert.Equal(t, 0, n)
	assert.NotContains(t, out, "Files\n")
	assert.Contains(t, out, "Files converted:   0")
}
