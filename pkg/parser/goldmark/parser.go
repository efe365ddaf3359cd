// Package goldmark turns Markdown source into the HTML-like mdast tree using
// the goldmark library, collecting diagnostics along the way.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// ialTransformerPriority runs the {: ...} transformer before the footnote
// transformer collects its list.
const ialTransformerPriority = 100

// NoFile is the source label used in diagnostics when none is configured.
const NoFile = "nofile"

// Options controls how Markdown is parsed.
type Options struct {
	// GFM enables GitHub Flavored Markdown: tables, strikethrough, task lists
	// and footnotes.
	GFM bool

	// Breaks turns single newlines inside paragraphs into line breaks.
	// It is only honored when GFM is enabled.
	Breaks bool

	// File labels the source in diagnostics.
	File string

	// Line is the line number of the first source line, used to offset
	// diagnostic lines and line metadata.
	Line int

	// Linkify turns bare URLs into links.
	Linkify bool

	// Math enables $inline$ and $$display$$ math spans.
	Math bool

	// FrontMatter strips a leading YAML front matter block into Result.FrontMatter.
	FrontMatter bool

	// DetectLanguage assigns a language class to fenced code blocks that have
	// no info string.
	DetectLanguage bool
}

// DefaultOptions returns the default parser options.
func DefaultOptions() Options {
	return Options{
		GFM:     true,
		Breaks:  false,
		File:    NoFile,
		Line:    1,
		Linkify: true,
		Math:    true,
	}
}

// withDefaults fills in zero-valued label fields.
func (o Options) withDefaults() Options {
	if o.File == "" {
		o.File = NoFile
	}
	if o.Line == 0 {
		o.Line = 1
	}
	return o
}

// Diagnostic is a message reported while parsing.
type Diagnostic struct {
	Severity config.Severity
	Line     int
	Message  string
}

// String formats the diagnostic as "severity line: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %d: %s", d.Severity, d.Line, d.Message)
}

// Result is the outcome of parsing a single source.
type Result struct {
	// Document is the parsed tree. It is always set, even when diagnostics
	// were reported.
	Document mdast.Document

	// Diagnostics holds the parser messages in source order.
	Diagnostics []Diagnostic

	// FrontMatter holds the decoded YAML front matter when enabled.
	FrontMatter map[string]any
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == config.SeverityError {
			return true
		}
	}
	return false
}

// Parser implements Markdown parsing on top of goldmark.
// A Parser is safe for concurrent use.
type Parser struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a parser for the given options.
func New(opts Options) *Parser {
	opts = opts.withDefaults()
	return &Parser{
		opts: opts,
		md:   newGoldmarkInstance(opts),
	}
}

// Options returns the options the parser was built with.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse converts Markdown source into an mdast document.
//
// The method:
//  1. Checks for context cancellation.
//  2. Parses the source with goldmark.
//  3. Maps the goldmark AST into mdast elements.
//  4. Collects diagnostics from the math parser, raw HTML blocks and front matter.
//
// The only error is context cancellation: problems in the source are
// reported as diagnostics and the document is still returned.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	content := copyContent(source)
	lines := mdast.NewLineIndex(content)
	collector := newCollector(lines, p.opts.Line)

	pc := parser.NewContext()
	pc.Set(collectorKey, collector)

	gmDoc := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(pc))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	result := &Result{}

	if p.opts.FrontMatter {
		fm, err := meta.TryGet(pc)
		if err != nil {
			collector.addLine(config.SeverityError, 1, fmt.Sprintf("invalid front matter: %v", err))
		} else if len(fm) > 0 {
			result.FrontMatter = fm
		}
	}

	m := newMapper(content, lines, p.opts, collector)
	result.Document = m.mapDocument(gmDoc)
	result.Diagnostics = collector.sorted()

	return result, nil
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(opts Options) goldmark.Markdown {
	var extensions []goldmark.Extender
	if opts.GFM {
		extensions = append(extensions,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Footnote,
		)
	}
	if opts.Linkify {
		extensions = append(extensions, extension.Linkify)
	}
	if opts.FrontMatter {
		extensions = append(extensions, meta.Meta)
	}

	parserOpts := []parser.Option{
		// Allows {.class #id} on headings.
		parser.WithAttribute(),
		parser.WithASTTransformers(util.Prioritized(&ialTransformer{}, ialTransformerPriority)),
	}
	if opts.Math {
		parserOpts = append(parserOpts,
			parser.WithInlineParsers(util.Prioritized(newMathParser(), mathParserPriority)),
		)
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parserOpts...),
	)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return []byte{}
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
