package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/voughtdq/ex-doc/pkg/config"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// MetaVerbatim marks elements that came from raw HTML rather than Markdown.
const MetaVerbatim = "verbatim"

// MetaLine holds the source line an element starts on.
const MetaLine = "line"

// selfClosing lists tags that never need an end tag, either because they are
// void or because HTML lets their end tag be implied.
//
//nolint:gochecknoglobals // Read-only lookup table.
var selfClosing = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
	atom.P: true, atom.Li: true, atom.Dt: true, atom.Dd: true,
	atom.Tr: true, atom.Td: true, atom.Th: true, atom.Option: true,
	atom.Optgroup: true, atom.Thead: true, atom.Tbody: true, atom.Tfoot: true,
	atom.Colgroup: true, atom.Rb: true, atom.Rt: true, atom.Rp: true,
}

// bodyContext is the fragment context for raw HTML blocks.
//
//nolint:gochecknoglobals // Shared read-only context node.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// mapHTMLBlock parses a raw HTML block into verbatim mdast nodes.
func (m *mapper) mapHTMLBlock(n *ast.HTMLBlock) []mdast.Node {
	var raw bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		raw.Write(seg.Value(m.source))
	}
	if n.HasClosure() {
		raw.Write(n.ClosureLine.Value(m.source))
	}

	start := 0
	if lines.Len() > 0 {
		start = lines.At(0).Start
	}

	for _, tag := range unclosedTags(raw.Bytes()) {
		m.diags.addOffset(config.SeverityWarning, start, fmt.Sprintf("Failed to find closing <%s>", tag))
	}

	nodes, err := html.ParseFragment(bytes.NewReader(raw.Bytes()), bodyContext)
	if err != nil {
		m.diags.addOffset(config.SeverityWarning, start, fmt.Sprintf("invalid HTML block: %v", err))
		return []mdast.Node{mdast.NewText(raw.String())}
	}

	line := m.lineAt(start)
	out := make([]mdast.Node, 0, len(nodes))
	for _, hn := range nodes {
		if hn.Type == html.TextNode && strings.TrimSpace(hn.Data) == "" {
			continue
		}
		node := convertHTML(hn)
		if node == nil {
			continue
		}
		if el, ok := node.(*mdast.Element); ok && line > 0 {
			el.SetMeta(MetaLine, line)
		}
		out = append(out, node)
	}
	return out
}

// mapRawHTML maps an inline raw HTML span. Comments keep their body; any
// other markup is kept as literal text.
func (m *mapper) mapRawHTML(n *ast.RawHTML) mdast.Node {
	var raw bytes.Buffer
	for i := range n.Segments.Len() {
		seg := n.Segments.At(i)
		raw.Write(seg.Value(m.source))
	}
	value := raw.String()

	if body, ok := strings.CutPrefix(value, "<!--"); ok {
		body = strings.TrimSuffix(body, "-->")
		return mdast.NewComment(body)
	}
	return mdast.NewText(value)
}

// convertHTML converts an x/net/html node into an mdast node.
func convertHTML(hn *html.Node) mdast.Node {
	switch hn.Type {
	case html.TextNode:
		return mdast.NewText(hn.Data)
	case html.CommentNode:
		return mdast.NewComment(hn.Data)
	case html.ElementNode:
		el := &mdast.Element{Tag: mdast.Canonical(hn.Data)}
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, mdast.NewAttr(name, a.Val))
		}
		for child := hn.FirstChild; child != nil; child = child.NextSibling {
			if node := convertHTML(child); node != nil {
				el.Children = append(el.Children, node)
			}
		}
		el.SetMeta(MetaVerbatim, true)
		return el
	default:
		return nil
	}
}

// unclosedTags returns the tags opened in raw that are never closed, outermost first.
func unclosedTags(raw []byte) []string {
	var stack []string
	z := html.NewTokenizer(bytes.NewReader(raw))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a read error: report what is still open either way.
			return stack
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !selfClosing[atom.Lookup(name)] {
				stack = append(stack, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == tag {
					stack = stack[:i]
					break
				}
			}
		case html.TextToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
		}
	}
}
