package pretty

import (
	"strconv"
	"strings"

	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// treeIndent is the indentation added per nesting level.
const treeIndent = "  "

// maxTextPreview caps how much of a text node is shown on one line.
const maxTextPreview = 60

// FormatTree renders a document as an indented outline, one node per line:
//
//	<div class="note" role="note">
//	  <p>
//	    "Hello"
func (s *Styles) FormatTree(doc mdast.Document) string {
	var b strings.Builder
	for _, node := range doc {
		s.writeNode(&b, node, 0)
	}
	return b.String()
}

func (s *Styles) writeNode(b *strings.Builder, node mdast.Node, depth int) {
	b.WriteString(s.Guide.Render(strings.Repeat(treeIndent, depth)))

	switch n := node.(type) {
	case *mdast.Text:
		b.WriteString(s.Text.Render(quotePreview(n.Content)))
		b.WriteByte('\n')
	case *mdast.Comment:
		if n.OutputMarker {
			b.WriteString(s.Marker.Render("<!-- output -->"))
		} else {
			b.WriteString(s.Comment.Render("<!--" + n.Content + "-->"))
		}
		b.WriteByte('\n')
	case *mdast.Element:
		b.WriteString(s.Tag.Render("<" + string(n.Tag)))
		for _, attr := range n.Attrs {
			b.WriteString(" " + s.AttrName.Render(string(attr.Name)) + "=" +
				s.AttrValue.Render(strconv.Quote(attr.Value)))
		}
		b.WriteString(s.Tag.Render(">"))
		if line, ok := n.Meta["line"].(int); ok {
			b.WriteString(s.Dim.Render("  :" + strconv.Itoa(line)))
		}
		b.WriteByte('\n')
		for _, child := range n.Children {
			s.writeNode(b, child, depth+1)
		}
	}
}

// quotePreview quotes text content, shortening long runs.
func quotePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= maxTextPreview {
		return strconv.Quote(content)
	}
	return strconv.Quote(string(runes[:maxTextPreview-1])) + "…"
}
