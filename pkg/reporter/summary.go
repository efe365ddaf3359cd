package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/voughtdq/ex-doc/internal/ui/pretty"
	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
	"github.com/voughtdq/ex-doc/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	fileColWidth      = 50
	sizeColWidth      = 9
	numColWidth       = 9
	maxFilePathLength = 48
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryReporter prints a per-file table followed by run totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = runner.Collect()
	}

	if len(result.Files) > 0 {
		r.renderFileTable(result.Files)
		fmt.Fprintln(r.bw)
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return result.Stats.DiagnosticsTotal, nil
}

func (r *SummaryReporter) renderFileTable(files []runner.FileOutcome) {
	sep := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files"))
	fmt.Fprintln(r.bw, sep)
	fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Size", sizeColWidth)),
		r.styles.TableHeader.Render(padLeft("Elements", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", numColWidth)),
	)
	fmt.Fprintln(r.bw, sep)

	for _, file := range files {
		path := r.opts.displayPath(file.Path)
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		padded := padRight(path, fileColWidth)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s %s\n", r.styles.TableErrorRow.Render(padded), r.styles.Error.Render("failed"))
			continue
		}

		var errs, warns int
		for _, d := range file.Diagnostics {
			if d.Severity == config.SeverityError {
				errs++
			} else {
				warns++
			}
		}

		switch {
		case errs > 0:
			padded = r.styles.TableErrorRow.Render(padded)
		case warns > 0:
			padded = r.styles.TableWarnRow.Render(padded)
		}

		size := "-"
		if file.Info != nil {
			size = humanize.Bytes(uint64(max(file.Info.Size, 0)))
		}

		fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
			padded,
			padLeft(size, sizeColWidth),
			padLeft(humanize.Comma(int64(mdast.Count(file.Document).Elements)), numColWidth),
			padLeft(strconv.Itoa(errs), numColWidth),
			padLeft(strconv.Itoa(warns), numColWidth),
		)
	}
}
