package goldmark

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ialPattern matches a trailing inline attribute list such as {: .warning #id}.
//
//nolint:gochecknoglobals // Compiled once.
var ialPattern = regexp.MustCompile(`\s*\{:\s*([^}]*)\}\s*$`)

// ialTransformer moves a trailing {: ...} attribute list on a heading into the
// heading's attributes. goldmark's own attribute syntax ({.class}) is handled
// by parser.WithAttribute.
type ialTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *ialTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		applyIAL(heading, source)
		return ast.WalkSkipChildren, nil
	})
}

func applyIAL(heading *ast.Heading, source []byte) {
	// Inline parsers such as linkify split text at ':', so the list may span
	// several trailing Text nodes.
	var (
		tail   []*ast.Text
		starts []int
		joined []byte
	)
	for n := heading.LastChild(); n != nil; n = n.PreviousSibling() {
		t, ok := n.(*ast.Text)
		if !ok {
			break
		}
		tail = append([]*ast.Text{t}, tail...)
	}
	if len(tail) == 0 {
		return
	}
	for _, t := range tail {
		starts = append(starts, len(joined))
		joined = append(joined, t.Segment.Value(source)...)
	}

	loc := ialPattern.FindSubmatchIndex(joined)
	if loc == nil {
		return
	}

	for _, attr := range parseIAL(string(joined[loc[2]:loc[3]])) {
		if attr.name == "class" {
			if existing, found := heading.AttributeString("class"); found {
				if s, isBytes := existing.([]byte); isBytes && len(s) > 0 {
					heading.SetAttributeString("class", []byte(string(s)+" "+attr.value))
					continue
				}
			}
		}
		heading.SetAttributeString(attr.name, []byte(attr.value))
	}

	for i := len(tail) - 1; i >= 0; i-- {
		t := tail[i]
		if starts[i] >= loc[0] {
			heading.RemoveChild(heading, t)
			continue
		}
		t.Segment = t.Segment.WithStop(t.Segment.Start + loc[0] - starts[i])
		break
	}
	trimTrailingSpace(heading, source)
}

// trimTrailingSpace strips the whitespace goldmark leaves before the list,
// dropping Text nodes that end up empty.
func trimTrailingSpace(heading *ast.Heading, source []byte) {
	for {
		last, ok := heading.LastChild().(*ast.Text)
		if !ok {
			return
		}
		seg := last.Segment
		for seg.Stop > seg.Start && isMathSpace(source[seg.Stop-1]) {
			seg.Stop--
		}
		if !seg.IsEmpty() {
			last.Segment = seg
			return
		}
		heading.RemoveChild(heading, last)
	}
}

type ialAttr struct {
	name  string
	value string
}

// parseIAL splits an attribute list body into attributes. Class tokens are
// merged into one class attribute placed where the first class appeared.
func parseIAL(body string) []ialAttr {
	var (
		attrs    []ialAttr
		classes  []string
		classIdx = -1
	)

	for _, token := range splitIAL(body) {
		switch {
		case strings.HasPrefix(token, "."):
			if len(token) == 1 {
				continue
			}
			if classIdx < 0 {
				classIdx = len(attrs)
				attrs = append(attrs, ialAttr{name: "class"})
			}
			classes = append(classes, token[1:])
		case strings.HasPrefix(token, "#"):
			if len(token) > 1 {
				attrs = append(attrs, ialAttr{name: "id", value: token[1:]})
			}
		default:
			name, value, _ := strings.Cut(token, "=")
			if name == "" {
				continue
			}
			attrs = append(attrs, ialAttr{name: name, value: strings.Trim(value, `"'`)})
		}
	}

	if classIdx >= 0 {
		attrs[classIdx].value = strings.Join(classes, " ")
	}
	return attrs
}

// splitIAL splits on whitespace outside quotes.
func splitIAL(body string) []string {
	var (
		tokens []string
		cur    bytes.Buffer
		quote  byte
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}
