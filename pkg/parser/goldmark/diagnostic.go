package goldmark

import (
	"sort"
	"sync"

	"github.com/yuin/goldmark/parser"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// collectorKey stores the diagnostic collector in the goldmark parser context
// so inline parsers can report problems.
//
//nolint:gochecknoglobals // goldmark context keys are allocated once per process.
var collectorKey = parser.NewContextKey()

// collector accumulates diagnostics for a single parse.
type collector struct {
	mu    sync.Mutex
	lines *mdast.LineIndex
	base  int
	diags []Diagnostic
}

func newCollector(lines *mdast.LineIndex, base int) *collector {
	return &collector{lines: lines, base: base}
}

// collectorFrom returns the collector stored in pc, or nil.
func collectorFrom(pc parser.Context) *collector {
	if pc == nil {
		return nil
	}
	c, _ := pc.Get(collectorKey).(*collector)
	return c
}

// addOffset records a diagnostic at a byte offset in the source.
func (c *collector) addOffset(severity config.Severity, offset int, message string) {
	if c == nil {
		return
	}
	line := c.lines.Line(offset)
	if line < 1 {
		line = 1
	}
	c.addLine(severity, line, message)
}

// addLine records a diagnostic at a 1-based line of the source. The configured
// starting line is applied here.
func (c *collector) addLine(severity config.Severity, line int, message string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, Diagnostic{
		Severity: severity,
		Line:     line + c.base - 1,
		Message:  message,
	})
}

// sorted returns the diagnostics ordered by line, keeping report order for ties.
func (c *collector) sorted() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.diags) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Line < out[j].Line
	})
	return out
}
