package mdast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownNodeType is returned when decoding a node with an unrecognized type.
var ErrUnknownNodeType = errors.New("unknown node type")

// jsonNode is the wire shape shared by all node kinds.
// Attributes are encoded as [name, value] pairs to keep order and duplicates.
type jsonNode struct {
	Type         string            `json:"type"`
	Content      *string           `json:"content,omitempty"`
	OutputMarker bool              `json:"outputMarker,omitempty"`
	Tag          string            `json:"tag,omitempty"`
	Attrs        [][2]string       `json:"attrs,omitempty"`
	Children     []json.RawMessage `json:"children,omitempty"`
	Meta         map[string]any    `json:"meta,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t *Text) MarshalJSON() ([]byte, error) {
	content := t.Content
	return marshalNode(jsonNode{Type: "text", Content: &content})
}

// MarshalJSON implements json.Marshaler.
func (c *Comment) MarshalJSON() ([]byte, error) {
	content := c.Content
	return marshalNode(jsonNode{Type: "comment", Content: &content, OutputMarker: c.OutputMarker})
}

// MarshalJSON implements json.Marshaler.
func (e *Element) MarshalJSON() ([]byte, error) {
	out := jsonNode{
		Type: "element",
		Tag:  string(e.Tag),
		Meta: e.Meta,
	}

	for _, attr := range e.Attrs {
		out.Attrs = append(out.Attrs, [2]string{string(attr.Name), attr.Value})
	}

	for _, child := range e.Children {
		raw, err := marshalChild(child)
		if err != nil {
			return nil, fmt.Errorf("encode child of <%s>: %w", e.Tag, err)
		}
		out.Children = append(out.Children, raw)
	}

	return marshalNode(out)
}

func marshalChild(child Node) ([]byte, error) {
	switch c := child.(type) {
	case *Text:
		if c != nil {
			return c.MarshalJSON()
		}
	case *Comment:
		if c != nil {
			return c.MarshalJSON()
		}
	case *Element:
		if c != nil {
			return c.MarshalJSON()
		}
	}
	return []byte("null"), nil
}

// marshalNode encodes without HTML escaping. The caller's encoder decides
// whether <, > and & are escaped in the final output.
func marshalNode(v jsonNode) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalDocument decodes a JSON array of nodes produced by json.Marshal(Document).
func UnmarshalDocument(data []byte) (Document, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := make(Document, 0, len(raws))
	for i, raw := range raws {
		node, err := unmarshalNode(raw)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		doc = append(doc, node)
	}
	return doc, nil
}

func unmarshalNode(data []byte) (Node, error) {
	var wire jsonNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	switch wire.Type {
	case "text":
		return &Text{Content: deref(wire.Content)}, nil
	case "comment":
		return &Comment{Content: deref(wire.Content), OutputMarker: wire.OutputMarker}, nil
	case "element":
		el := &Element{Tag: Canonical(wire.Tag), Meta: wire.Meta}
		for _, pair := range wire.Attrs {
			el.Attrs = append(el.Attrs, Attr{Name: Canonical(pair[0]), Value: pair[1]})
		}
		for _, raw := range wire.Children {
			child, err := unmarshalNode(raw)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		}
		return el, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, wire.Type)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
