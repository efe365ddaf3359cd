package goldmark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/voughtdq/ex-doc/pkg/langdetect"
	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// Class values emitted by the mapper.
const (
	ClassInline          = "inline"
	ClassMathInline      = "math-inline"
	ClassMathDisplay     = "math-display"
	classFootnote        = "footnote"
	classReverseFootnote = "reversefootnote"
	classFootnotes       = "footnotes"
)

// mapper converts goldmark AST nodes into mdast nodes.
type mapper struct {
	source []byte
	lines  *mdast.LineIndex
	opts   Options
	diags  *collector
}

// newMapper creates a new mapper for the given content.
func newMapper(source []byte, lines *mdast.LineIndex, opts Options, diags *collector) *mapper {
	return &mapper{
		source: source,
		lines:  lines,
		opts:   opts,
		diags:  diags,
	}
}

// mapDocument maps the top-level goldmark document.
func (m *mapper) mapDocument(doc ast.Node) mdast.Document {
	nodes := m.mapChildren(doc)
	if nodes == nil {
		return mdast.Document{}
	}
	return nodes
}

// mapChildren maps every child of n, merging adjacent text runs.
func (m *mapper) mapChildren(n ast.Node) []mdast.Node {
	var out []mdast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, m.mapNode(child)...)
	}
	return mergeText(out)
}

// mapNode maps a single goldmark node. Some nodes expand to several mdast
// nodes (tight list text blocks, text followed by a break) or to none.
//
//nolint:cyclop,funlen // One case per goldmark node kind.
func (m *mapper) mapNode(n ast.Node) []mdast.Node {
	switch node := n.(type) {
	// Blocks.
	case *ast.Paragraph:
		return m.block(mdast.TagP, nil, n)
	case *ast.TextBlock:
		return m.mapChildren(n)
	case *ast.Heading:
		return m.block(headingTag(node.Level), m.attributes(n), n)
	case *ast.Blockquote:
		return m.block(mdast.TagBlockquote, nil, n)
	case *ast.List:
		if node.IsOrdered() {
			var attrs []mdast.Attr
			if node.Start != 1 {
				attrs = append(attrs, mdast.Attr{Name: mdast.AttrStart, Value: strconv.Itoa(node.Start)})
			}
			return m.block(mdast.TagOl, attrs, n)
		}
		return m.block(mdast.TagUl, nil, n)
	case *ast.ListItem:
		return m.block(mdast.TagLi, nil, n)
	case *ast.FencedCodeBlock:
		return []mdast.Node{m.codeBlock(n, string(node.Language(m.source)))}
	case *ast.CodeBlock:
		return []mdast.Node{m.codeBlock(n, "")}
	case *ast.ThematicBreak:
		return []mdast.Node{m.withLine(mdast.NewElement(mdast.TagHr, nil), n)}
	case *ast.HTMLBlock:
		return m.mapHTMLBlock(node)

	// Inlines.
	case *ast.Text:
		return m.mapText(node)
	case *ast.String:
		value := node.Value
		if !node.IsRaw() && !node.IsCode() {
			value = unescape(value)
		}
		return []mdast.Node{mdast.NewText(string(value))}
	case *ast.Emphasis:
		tag := mdast.TagEm
		if node.Level >= 2 {
			tag = mdast.TagStrong
		}
		return []mdast.Node{mdast.NewElement(tag, nil, m.mapChildren(n)...)}
	case *ast.CodeSpan:
		return []mdast.Node{mdast.NewElement(mdast.TagCode,
			[]mdast.Attr{{Name: mdast.AttrClass, Value: ClassInline}},
			mdast.NewText(m.rawText(n)),
		)}
	case *ast.Link:
		attrs := []mdast.Attr{{Name: mdast.AttrHref, Value: string(node.Destination)}}
		if len(node.Title) > 0 {
			attrs = append(attrs, mdast.Attr{Name: mdast.AttrTitle, Value: string(node.Title)})
		}
		return []mdast.Node{mdast.NewElement(mdast.TagA, attrs, m.mapChildren(n)...)}
	case *ast.Image:
		alt := ""
		for _, child := range m.mapChildren(n) {
			alt += mdast.TextContent(child)
		}
		attrs := []mdast.Attr{
			{Name: mdast.AttrSrc, Value: string(node.Destination)},
			{Name: mdast.AttrAlt, Value: alt},
		}
		if len(node.Title) > 0 {
			attrs = append(attrs, mdast.Attr{Name: mdast.AttrTitle, Value: string(node.Title)})
		}
		return []mdast.Node{mdast.NewElement(mdast.TagImg, attrs)}
	case *ast.AutoLink:
		return []mdast.Node{m.autoLink(node)}
	case *ast.RawHTML:
		return []mdast.Node{m.mapRawHTML(node)}
	case *Math:
		return []mdast.Node{mapMath(node)}

	// GitHub Flavored Markdown.
	case *east.Strikethrough:
		return []mdast.Node{mdast.NewElement(mdast.TagDel, nil, m.mapChildren(n)...)}
	case *east.Table:
		return []mdast.Node{m.table(node)}
	case *east.TaskCheckBox:
		attrs := []mdast.Attr{
			{Name: mdast.AttrType, Value: "checkbox"},
			{Name: mdast.AttrDisabled, Value: ""},
		}
		if node.IsChecked {
			attrs = append(attrs, mdast.Attr{Name: mdast.AttrChecked, Value: ""})
		}
		return []mdast.Node{mdast.NewElement(mdast.TagInput, attrs)}
	case *east.FootnoteLink:
		return []mdast.Node{m.footnoteLink(node)}
	case *east.FootnoteBacklink:
		return []mdast.Node{mdast.NewElement(mdast.TagA, []mdast.Attr{
			{Name: mdast.AttrHref, Value: fmt.Sprintf("#fnref:%d", node.Index)},
			{Name: mdast.AttrClass, Value: classReverseFootnote},
		}, mdast.NewText("↩"))}
	case *east.FootnoteList:
		list := mdast.NewElement(mdast.TagOl, nil, m.mapChildren(n)...)
		div := mdast.NewElement(mdast.TagDiv,
			[]mdast.Attr{{Name: mdast.AttrClass, Value: classFootnotes}},
			mdast.NewElement(mdast.TagHr, nil), list)
		return []mdast.Node{m.withLine(div, n)}
	case *east.Footnote:
		li := mdast.NewElement(mdast.TagLi,
			[]mdast.Attr{{Name: mdast.AttrID, Value: fmt.Sprintf("fn:%d", node.Index)}},
			m.mapChildren(n)...)
		return []mdast.Node{m.withLine(li, n)}

	default:
		return m.mapChildren(n)
	}
}

// block builds a block element from n's children and records its line.
func (m *mapper) block(tag mdast.Name, attrs []mdast.Attr, n ast.Node) []mdast.Node {
	el := mdast.NewElement(tag, attrs, m.mapChildren(n)...)
	return []mdast.Node{m.withLine(el, n)}
}

// withLine stores the source line of n on el when it is known.
func (m *mapper) withLine(el *mdast.Element, n ast.Node) *mdast.Element {
	if offset, ok := firstOffset(n); ok {
		if line := m.lineAt(offset); line > 0 {
			el.SetMeta(MetaLine, line)
		}
	}
	return el
}

// lineAt converts an offset to a line number shifted by the configured start line.
func (m *mapper) lineAt(offset int) int {
	line := m.lines.Line(offset)
	if line < 1 {
		return 0
	}
	return line + m.opts.Line - 1
}

// mapText maps a text segment along with any line break that follows it.
func (m *mapper) mapText(n *ast.Text) []mdast.Node {
	value := n.Segment.Value(m.source)
	if !n.IsRaw() {
		value = unescape(value)
	}

	out := []mdast.Node{mdast.NewText(string(value))}

	switch {
	case n.HardLineBreak():
		out = append(out, mdast.NewElement(mdast.TagBr, nil))
	case n.SoftLineBreak() && m.opts.Breaks && m.opts.GFM:
		out = append(out, mdast.NewElement(mdast.TagBr, nil))
	case n.SoftLineBreak():
		out[0] = mdast.NewText(string(value) + "\n")
	}

	if out[0].(*mdast.Text).Content == "" {
		out = out[1:]
	}
	return out
}

// codeBlock builds pre > code with the block's literal content.
func (m *mapper) codeBlock(n ast.Node, lang string) *mdast.Element {
	var b strings.Builder
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		b.Write(seg.Value(m.source))
	}
	content := strings.TrimSuffix(b.String(), "\n")

	if lang == "" && m.opts.DetectLanguage {
		if detected := langdetect.Detect([]byte(content)); detected != "" && detected != langdetect.PlainText {
			lang = detected
		}
	}

	var attrs []mdast.Attr
	if lang != "" {
		attrs = []mdast.Attr{{Name: mdast.AttrClass, Value: lang}}
	}

	code := mdast.NewElement(mdast.TagCode, attrs, mdast.NewText(content))
	return m.withLine(mdast.NewElement(mdast.TagPre, nil, code), n)
}

// autoLink maps <https://...>, <user@host> and linkified bare URLs.
func (m *mapper) autoLink(n *ast.AutoLink) *mdast.Element {
	label := string(n.Label(m.source))
	href := string(n.URL(m.source))

	switch {
	case n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:"):
		href = "mailto:" + href
	case strings.HasPrefix(strings.ToLower(href), "www."):
		href = "http://" + href
	}

	return mdast.NewElement(mdast.TagA,
		[]mdast.Attr{{Name: mdast.AttrHref, Value: href}},
		mdast.NewText(label))
}

// table maps a GFM table into thead and tbody sections.
func (m *mapper) table(n *east.Table) *mdast.Element {
	table := mdast.NewElement(mdast.TagTable, nil)
	var body *mdast.Element

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			tr := mdast.NewElement(mdast.TagTr, nil, m.tableCells(row, mdast.TagTh)...)
			table.Children = append(table.Children, mdast.NewElement(mdast.TagThead, nil, tr))
		case *east.TableRow:
			if body == nil {
				body = mdast.NewElement(mdast.TagTbody, nil)
				table.Children = append(table.Children, body)
			}
			body.Children = append(body.Children, mdast.NewElement(mdast.TagTr, nil, m.tableCells(row, mdast.TagTd)...))
		}
	}

	return m.withLine(table, n)
}

func (m *mapper) tableCells(row ast.Node, tag mdast.Name) []mdast.Node {
	var cells []mdast.Node
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		var attrs []mdast.Attr
		if cell.Alignment != east.AlignNone {
			attrs = []mdast.Attr{{Name: mdast.AttrStyle, Value: "text-align: " + cell.Alignment.String()}}
		}
		cells = append(cells, mdast.NewElement(tag, attrs, m.mapChildren(cell)...))
	}
	return cells
}

func (m *mapper) footnoteLink(n *east.FootnoteLink) *mdast.Element {
	id := fmt.Sprintf("fnref:%d", n.Index)
	if n.RefIndex > 0 {
		id = fmt.Sprintf("fnref%d:%d", n.RefIndex, n.Index)
	}
	link := mdast.NewElement(mdast.TagA, []mdast.Attr{
		{Name: mdast.AttrHref, Value: fmt.Sprintf("#fn:%d", n.Index)},
		{Name: mdast.AttrClass, Value: classFootnote},
	}, mdast.NewText(strconv.Itoa(n.Index)))
	return mdast.NewElement(mdast.TagSup, []mdast.Attr{{Name: mdast.AttrID, Value: id}}, link)
}

// attributes converts goldmark node attributes, keeping their order.
func (m *mapper) attributes(n ast.Node) []mdast.Attr {
	gmAttrs := n.Attributes()
	if len(gmAttrs) == 0 {
		return nil
	}
	attrs := make([]mdast.Attr, 0, len(gmAttrs))
	for _, a := range gmAttrs {
		attrs = append(attrs, mdast.NewAttr(string(a.Name), attributeValue(a.Value)))
	}
	return attrs
}

// rawText concatenates the literal text of n's children without unescaping.
func (m *mapper) rawText(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(m.source))
		case *ast.String:
			b.Write(c.Value)
		}
	}
	return b.String()
}

func mapMath(n *Math) *mdast.Element {
	class := ClassMathInline
	content := string(n.Content)
	if n.Display {
		class = ClassMathDisplay
		content = strings.Trim(content, "\r\n")
	}
	return mdast.NewElement(mdast.TagCode,
		[]mdast.Attr{{Name: mdast.AttrClass, Value: class}},
		mdast.NewText(content))
}

func headingTag(level int) mdast.Name {
	switch level {
	case 1:
		return mdast.TagH1
	case 2:
		return mdast.TagH2
	case 3:
		return mdast.TagH3
	case 4:
		return mdast.TagH4
	case 5:
		return mdast.TagH5
	default:
		return mdast.TagH6
	}
}

func attributeValue(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// firstOffset finds the first source offset covered by n or its descendants.
func firstOffset(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start, true
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if offset, ok := firstOffset(child); ok {
			return offset, true
		}
	}
	return 0, false
}

// unescape resolves entities and backslash escapes in a text value.
func unescape(value []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(value)))
}

// mergeText joins adjacent text nodes into one.
func mergeText(nodes []mdast.Node) []mdast.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := nodes[:0:0]
	for _, node := range nodes {
		text, ok := node.(*mdast.Text)
		if ok && len(out) > 0 {
			if prev, prevOK := out[len(out)-1].(*mdast.Text); prevOK {
				out[len(out)-1] = mdast.NewText(prev.Content + text.Content)
				continue
			}
		}
		out = append(out, node)
	}
	return out
}
