package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (1 error, 2 warnings) in 2 files, 14 files converted".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	converted := s.Dim.Render(fmt.Sprintf("%d %s converted", stats.FilesProcessed,
		plural(stats.FilesProcessed, wordFile, wordFiles)))

	var failed string
	if stats.FilesErrored > 0 {
		failed = ", " + s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored))
	}

	if stats.DiagnosticsTotal == 0 {
		return s.Success.Render("No issues found") + " (" + converted + ")" + failed + "\n"
	}

	var severityParts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}

	head := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severityParts) > 0 {
		head += " (" + strings.Join(severityParts, ", ") + ")"
	}

	return fmt.Sprintf("%s in %d %s, %s%s\n", head,
		stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles), converted, failed)
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(s.TableSeparator.Render(strings.Repeat("─", summaryDividerWidth)))
	builder.WriteString("\n")

	row("Files converted", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Warning.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	row("Source size", s.SummaryValue.Render(humanize.Bytes(uint64(max(stats.Bytes, 0)))))

	builder.WriteString("\n")
	row("Elements", s.SummaryValue.Render(humanize.Comma(int64(stats.Nodes.Elements))))
	row("Text nodes", s.SummaryValue.Render(humanize.Comma(int64(stats.Nodes.Texts))))
	row("Comments", s.SummaryValue.Render(humanize.Comma(int64(stats.Nodes.Comments))))

	builder.WriteString("\n")
	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		row("  Errors", s.Error.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		row("  Warnings", s.Warning.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		row("  Info", s.Info.Render(strconv.Itoa(n)))
	}
	if stats.Duration > 0 {
		row("Duration", s.Dim.Render(stats.Duration.Round(time.Millisecond).String()))
	}

	return builder.String()
}
