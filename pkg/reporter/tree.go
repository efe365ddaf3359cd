package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/voughtdq/ex-doc/internal/ui/pretty"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// TreeReporter prints each document as an indented, styled outline
// followed by its diagnostics.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	return &TreeReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to convert."))
		}
		return 0, nil
	}

	var total int
	for i, file := range result.Files {
		if i > 0 {
			fmt.Fprintln(r.bw)
		}
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Diagnostics)))
		fmt.Fprint(r.bw, r.styles.FormatTree(file.Document))
		for _, diag := range file.Diagnostics {
			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(path, diag))
			total++
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
