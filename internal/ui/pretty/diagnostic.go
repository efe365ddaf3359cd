package pretty

import (
	"fmt"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/markdown"
)

// FormatDiagnostic formats a parser diagnostic as "  path:line  severity  message".
func (s *Styles) FormatDiagnostic(path string, diag markdown.Diagnostic) string {
	location := s.FilePath.Render(path) + s.Location.Render(fmt.Sprintf(":%d", diag.Line))
	return fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
	)
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
