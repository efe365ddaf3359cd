package runner

import (
	"time"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/fsutil"
	"github.com/voughtdq/ex-doc/pkg/markdown"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// FileOutcome is the conversion result for one input.
type FileOutcome struct {
	// Path is the file path that was processed, or the stdin label.
	Path string

	// Document is the normalized tree. Nil when Error is set.
	Document mdast.Document

	// Diagnostics are the parser messages for this file.
	Diagnostics []markdown.Diagnostic

	// FrontMatter is the decoded front matter, if enabled and present.
	FrontMatter map[string]any

	// Info describes the source as it was read. Nil for stdin.
	Info *fsutil.FileInfo

	// Error is set if the file could not be read or converted.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesWithIssues int

	DiagnosticsTotal      int
	DiagnosticsBySeverity map[config.Severity]int

	// Nodes tallies every node in every produced document.
	Nodes mdast.Counts

	// Bytes is the total size of the sources read.
	Bytes int64

	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether a file failed or an error diagnostic occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[config.Severity]int),
	}
}

// accumulate records an outcome and folds it into the stats.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Info != nil {
		r.Stats.Bytes += outcome.Info.Size
	}

	counts := mdast.Count(outcome.Document)
	r.Stats.Nodes.Texts += counts.Texts
	r.Stats.Nodes.Comments += counts.Comments
	r.Stats.Nodes.Elements += counts.Elements

	if len(outcome.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
	}
	r.Stats.DiagnosticsTotal += len(outcome.Diagnostics)
	for _, diag := range outcome.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
