package mdast

import "strings"

// OutputMarkerText is the body of the comment a notebook export places right
// before a code block that holds captured execution output.
const OutputMarkerText = `livebook:{"output":true}`

// IsOutputMarker reports whether a comment body is the notebook output marker.
func IsOutputMarker(content string) bool {
	return strings.TrimSpace(content) == OutputMarkerText
}

// NewText creates a text node.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// NewComment creates a comment node. The output marker flag is derived from
// the comment body.
func NewComment(content string) *Comment {
	return &Comment{Content: content, OutputMarker: IsOutputMarker(content)}
}

// NewOutputMarker creates the notebook output marker comment.
func NewOutputMarker() *Comment {
	return &Comment{Content: " " + OutputMarkerText + " ", OutputMarker: true}
}

// NewElement creates an element with the given tag, attributes and children.
func NewElement(tag Name, attrs []Attr, children ...Node) *Element {
	return &Element{
		Tag:      tag,
		Attrs:    attrs,
		Children: children,
	}
}

// El is a shorthand for building elements from raw strings.
// attrs is a flat list of name/value pairs; a trailing odd name gets an empty value.
func El(tag string, attrs []string, children ...Node) *Element {
	var built []Attr
	for i := 0; i < len(attrs); i += 2 {
		value := ""
		if i+1 < len(attrs) {
			value = attrs[i+1]
		}
		built = append(built, NewAttr(attrs[i], value))
	}
	return NewElement(Canonical(tag), built, children...)
}

// AppendChild appends children to an element.
func AppendChild(parent *Element, children ...Node) {
	if parent == nil {
		return
	}
	for _, child := range children {
		if child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
}

// SetMeta sets a metadata value, allocating the map on first use.
func (e *Element) SetMeta(key string, value any) {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
}

// TextContent returns the concatenated text of a subtree.
func TextContent(node Node) string {
	var b strings.Builder
	writeText(&b, node)
	return b.String()
}

func writeText(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Text:
		b.WriteString(n.Content)
	case *Element:
		for _, child := range n.Children {
			writeText(b, child)
		}
	}
}
