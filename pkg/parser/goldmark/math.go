package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/voughtdq/ex-doc/pkg/config"
)

// mathParserPriority places math between code spans and links.
const mathParserPriority = 150

// KindMath is the goldmark node kind for math spans.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once.
var KindMath = ast.NewNodeKind("Math")

// Math is an inline math span: $...$ or $$...$$.
type Math struct {
	ast.BaseInline

	// Display is true for $$ spans.
	Display bool

	// Content is the text between the delimiters.
	Content []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	display := "false"
	if n.Display {
		display = "true"
	}
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": display,
		"Content": string(n.Content),
	}, nil)
}

type mathParser struct{}

func newMathParser() parser.InlineParser {
	return &mathParser{}
}

// Trigger implements parser.InlineParser.
func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse implements parser.InlineParser.
func (p *mathParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) < 2 {
		return nil
	}
	if line[1] == '$' {
		return p.parseDisplay(block, line, seg, pc)
	}
	return p.parseInline(block, line)
}

// parseInline matches $content$ on a single line. The opening dollar must not
// be followed by a space; the closing one must not follow a space or a
// backslash and must not precede a digit.
func (p *mathParser) parseInline(block text.Reader, line []byte) ast.Node {
	if isMathSpace(line[1]) {
		return nil
	}
	for i := 2; i < len(line); i++ {
		if line[i] != '$' {
			continue
		}
		prev := line[i-1]
		if isMathSpace(prev) || prev == '\\' {
			continue
		}
		if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
			continue
		}
		node := &Math{Content: bytes.Clone(line[1:i])}
		block.Advance(i + 1)
		return node
	}
	return nil
}

// parseDisplay matches $$content$$, which may span several lines of the
// paragraph. An unterminated span is reported and left as literal text.
func (p *mathParser) parseDisplay(block text.Reader, line []byte, seg text.Segment, pc parser.Context) ast.Node {
	if idx := bytes.Index(line[2:], []byte("$$")); idx >= 0 {
		node := &Math{Display: true, Content: bytes.Clone(line[2 : 2+idx])}
		block.Advance(2 + idx + 2)
		return node
	}

	savedLine, savedPos := block.Position()

	var content bytes.Buffer
	content.Write(line[2:])
	block.AdvanceLine()

	for {
		next, _ := block.PeekLine()
		if next == nil {
			break
		}
		if idx := bytes.Index(next, []byte("$$")); idx >= 0 {
			content.Write(next[:idx])
			block.Advance(idx + 2)
			return &Math{Display: true, Content: content.Bytes()}
		}
		content.Write(next)
		block.AdvanceLine()
	}

	block.SetPosition(savedLine, savedPos)
	collectorFrom(pc).addOffset(config.SeverityWarning, seg.Start, "Unterminated display math: missing closing $$")

	// Consume both dollars so the second one does not retrigger this parser.
	block.Advance(2)
	return ast.NewTextSegment(text.NewSegment(seg.Start, seg.Start+2))
}

func isMathSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
