// Package mdast provides the HTML-like AST produced from Markdown sources.
// A Document is an ordered sequence of nodes; every node is a Text, a Comment,
// or an Element carrying a tag, ordered attributes, children, and opaque metadata.
package mdast

// NodeKind classifies the type of an AST node.
type NodeKind uint8

// Node kinds. The set is closed: every Node is exactly one of these.
const (
	NodeText NodeKind = iota
	NodeComment
	NodeElement
)

// String returns a human-readable name for the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeComment:
		return "comment"
	case NodeElement:
		return "element"
	default:
		return "unknown"
	}
}

// Node is a single node in the AST.
type Node interface {
	// Kind identifies which variant this node is.
	Kind() NodeKind

	// clone returns a deep copy of the node.
	clone() Node
}

// Document is an ordered sequence of top-level nodes in reading order.
type Document []Node

// Text is a run of character data.
type Text struct {
	Content string
}

// Kind implements Node.
func (*Text) Kind() NodeKind { return NodeText }

func (t *Text) clone() Node {
	return &Text{Content: t.Content}
}

// Comment is an HTML comment found in the source.
type Comment struct {
	// Content is the comment body without the <!-- --> delimiters.
	Content string

	// OutputMarker is set for the sentinel comment that precedes a code block
	// holding captured notebook execution output.
	OutputMarker bool
}

// Kind implements Node.
func (*Comment) Kind() NodeKind { return NodeComment }

func (c *Comment) clone() Node {
	return &Comment{Content: c.Content, OutputMarker: c.OutputMarker}
}

// Element is a tagged node with attributes and children.
type Element struct {
	// Tag is the canonical element name.
	Tag Name

	// Attrs holds attributes in source order. Duplicate names are allowed.
	Attrs []Attr

	// Children holds the child nodes in reading order.
	Children []Node

	// Meta carries parser-supplied data that is opaque to the AST passes,
	// such as the source line or a verbatim flag.
	Meta map[string]any
}

// Kind implements Node.
func (*Element) Kind() NodeKind { return NodeElement }

func (e *Element) clone() Node {
	return e.Clone()
}

// Clone returns a deep copy of the element and its subtree.
// Meta values are copied shallowly.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}

	clone := &Element{
		Tag:   e.Tag,
		Attrs: CloneAttrs(e.Attrs),
		Meta:  CloneMeta(e.Meta),
	}

	if e.Children != nil {
		clone.Children = make([]Node, len(e.Children))
		for i, child := range e.Children {
			clone.Children[i] = child.clone()
		}
	}

	return clone
}

// HasChildren returns true if the element has any children.
func (e *Element) HasChildren() bool {
	return len(e.Children) > 0
}

// FirstChild returns the first child or nil.
func (e *Element) FirstChild() Node {
	if len(e.Children) == 0 {
		return nil
	}
	return e.Children[0]
}

// SingleText returns the content of the element's only child when that child is
// a Text node. ok is false for any other shape.
func (e *Element) SingleText() (string, bool) {
	if len(e.Children) != 1 {
		return "", false
	}
	text, isText := e.Children[0].(*Text)
	if !isText || text == nil {
		return "", false
	}
	return text.Content, true
}

// Is reports whether node is an Element with the given tag.
func Is(node Node, tag Name) bool {
	el, ok := node.(*Element)
	return ok && el.Tag == tag
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, node := range d {
		out[i] = node.clone()
	}
	return out
}

// CloneMeta returns a shallow copy of a metadata map.
func CloneMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
