package mdast

import "strings"

// Attr is a single element attribute. Values are raw strings and are never
// interpreted by the AST passes.
type Attr struct {
	Name  Name
	Value string
}

// NewAttr creates an attribute with a canonicalized name.
func NewAttr(name, value string) Attr {
	return Attr{Name: Canonical(name), Value: value}
}

// CloneAttrs returns a copy of an attribute slice. nil stays nil.
func CloneAttrs(attrs []Attr) []Attr {
	if attrs == nil {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}

// LookupAttr returns the index of the first attribute with the given name.
func LookupAttr(attrs []Attr, name Name) (int, bool) {
	for i, attr := range attrs {
		if attr.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Lookup returns the index of the first attribute with the given name.
func (e *Element) Lookup(name Name) (int, bool) {
	return LookupAttr(e.Attrs, name)
}

// Attr returns the value of the first attribute with the given name.
func (e *Element) Attr(name Name) (string, bool) {
	idx, ok := e.Lookup(name)
	if !ok {
		return "", false
	}
	return e.Attrs[idx].Value, true
}

// AttrOrEmpty returns the value of the first attribute with the given name, or "".
func (e *Element) AttrOrEmpty(name Name) string {
	value, _ := e.Attr(name)
	return value
}

// SetAttr replaces the value of the first attribute with the given name, or
// appends a new attribute when none exists. Later duplicates are left alone.
func (e *Element) SetAttr(name Name, value string) {
	e.Attrs = SetAttr(e.Attrs, name, value)
}

// AppendAttr appends an attribute without checking for duplicates.
func (e *Element) AppendAttr(name Name, value string) {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// SetAttr returns attrs with the first attribute named name set to value,
// appending it when absent. The input slice is not modified.
func SetAttr(attrs []Attr, name Name, value string) []Attr {
	out := CloneAttrs(attrs)
	if idx, ok := LookupAttr(out, name); ok {
		out[idx].Value = value
		return out
	}
	return append(out, Attr{Name: name, Value: value})
}

// HasClass reports whether the space-separated class attribute contains token.
func (e *Element) HasClass(token string) bool {
	for _, field := range strings.Fields(e.AttrOrEmpty(AttrClass)) {
		if field == token {
			return true
		}
	}
	return false
}
