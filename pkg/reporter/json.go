package reporter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// SchemaVersion identifies the JSON output layout.
const SchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Document    mdast.Document   `json:"document"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	FrontMatter map[string]any   `json:"frontMatter,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesConverted  int            `json:"filesConverted"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
	Elements        int            `json:"elements"`
	Texts           int            `json:"texts"`
	Comments        int            `json:"comments"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: SchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{BySeverity: make(map[string]int)},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := NewJSONFileResult(file)
		fileResult.Path = r.opts.displayPath(file.Path)
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesConverted = stats.FilesProcessed
	output.Summary.FilesWithIssues = stats.FilesWithIssues
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalIssues = stats.DiagnosticsTotal
	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}
	output.Summary.Elements = stats.Nodes.Elements
	output.Summary.Texts = stats.Nodes.Texts
	output.Summary.Comments = stats.Nodes.Comments

	return output
}

// NewJSONFileResult converts one outcome to its JSON shape.
func NewJSONFileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:        file.Path,
		Document:    file.Document,
		Diagnostics: make([]JSONDiagnostic, 0, len(file.Diagnostics)),
		FrontMatter: jsonSafeMap(file.FrontMatter),
	}
	if out.Document == nil {
		out.Document = mdast.Document{}
	}
	if file.Error != nil {
		out.Error = file.Error.Error()
	}
	for _, d := range file.Diagnostics {
		severity := d.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		out.Diagnostics = append(out.Diagnostics, JSONDiagnostic{
			Severity: string(severity),
			Line:     d.Line,
			Message:  d.Message,
		})
	}
	return out
}

// MarshalFile encodes a single outcome, as written by --output-dir.
func MarshalFile(file runner.FileOutcome, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(NewJSONFileResult(file)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", file.Path, err)
	}
	return buf.Bytes(), nil
}

// jsonSafeMap rewrites YAML decoded values so encoding/json accepts them.
// Front matter nested maps arrive keyed by interface{}.
func jsonSafeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = jsonSafe(v)
	}
	return out
}

func jsonSafe(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return jsonSafeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonSafe(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonSafe(item)
		}
		return out
	default:
		return v
	}
}
