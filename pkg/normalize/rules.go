package normalize

import (
	"strings"
	"unicode"

	"github.com/voughtdq/ex-doc/pkg/mdast"
)

// Class and role values matched or produced by the rules.
const (
	classMathInline  = "math-inline"
	classMathDisplay = "math-display"
	classOutput      = "output"
	classAdmonition  = "admonition"
	roleNote         = "note"
)

// admonitionKinds is the fixed set of heading classes that mark an admonition.
//
//nolint:gochecknoglobals // Read-only lookup table.
var admonitionKinds = map[string]bool{
	"warning": true,
	"error":   true,
	"info":    true,
	"tip":     true,
	"neutral": true,
}

// mathText undoes the parser's math tokenization so a downstream math renderer
// sees the original delimiters. It matches only code elements whose sole
// attribute is the math class and whose sole child is text.
func mathText(el *mdast.Element) (*mdast.Text, bool) {
	if !hasTag(el, mdast.TagCode) || len(el.Attrs) != 1 {
		return nil, false
	}

	attr := el.Attrs[0]
	if mdast.Canonical(string(attr.Name)) != mdast.AttrClass {
		return nil, false
	}

	content, ok := el.SingleText()
	if !ok {
		return nil, false
	}

	switch attr.Value {
	case classMathInline:
		return mdast.NewText("$" + content + "$"), true
	case classMathDisplay:
		return mdast.NewText("$$\n" + content + "\n$$"), true
	default:
		return nil, false
	}
}

// admonition converts a blockquote led by an h3/h4 whose class names an
// admonition kind into div[role=note]. A blockquote with such a heading but no
// recognized kind is handled here as a regular blockquote so the rule is never
// re-entered for it.
func admonition(el *mdast.Element) (*mdast.Element, bool) {
	if !hasTag(el, mdast.TagBlockquote) || len(el.Children) == 0 {
		return nil, false
	}

	heading, ok := el.Children[0].(*mdast.Element)
	if !ok || !(hasTag(heading, mdast.TagH3) || hasTag(heading, mdast.TagH4)) {
		return nil, false
	}

	kinds := admonitionTokens(firstAttrValue(heading.Attrs, mdast.AttrClass))
	if kinds == "" {
		return element(el), true
	}

	div := &mdast.Element{
		Tag:      mdast.TagDiv,
		Attrs:    admonitionAttrs(el.Attrs, classAdmonition+" "+kinds),
		Children: el.Children,
		Meta:     el.Meta,
	}

	// The div goes through the generic path: it is no longer a blockquote, so
	// the heading and remaining children are normalized without revisiting this rule.
	return element(div), true
}

// admonitionTokens keeps the recognized admonition kinds from a class value,
// in their original order.
func admonitionTokens(class string) string {
	var kinds []string
	for _, token := range strings.Fields(class) {
		if admonitionKinds[token] {
			kinds = append(kinds, token)
		}
	}
	return strings.Join(kinds, " ")
}

// admonitionAttrs builds the container attributes: the merged class and the
// note role first, then every other attribute in order. Only the first class
// and the first role are replaced; later duplicates are kept as they are.
func admonitionAttrs(attrs []mdast.Attr, admonitionClass string) []mdast.Attr {
	class := admonitionClass
	classIdx, hasClass := lookupAttr(attrs, mdast.AttrClass)
	if hasClass {
		class = strings.TrimRightFunc(attrs[classIdx].Value, unicode.IsSpace) + " " + admonitionClass
	}
	roleIdx, hasRole := lookupAttr(attrs, mdast.AttrRole)

	out := make([]mdast.Attr, 0, len(attrs)+2)
	out = append(out,
		mdast.Attr{Name: mdast.AttrClass, Value: class},
		mdast.Attr{Name: mdast.AttrRole, Value: roleNote},
	)
	for i, attr := range attrs {
		if (hasClass && i == classIdx) || (hasRole && i == roleIdx) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// mergeOutput matches the notebook output pattern: a marker comment followed
// by pre > code > text. It returns the rebuilt pre with "output" appended to
// the code class. The marker itself is discarded by the caller.
func mergeOutput(current mdast.Node, rest []mdast.Node) (*mdast.Element, bool) {
	comment, ok := current.(*mdast.Comment)
	if !ok || comment == nil || !comment.OutputMarker || len(rest) == 0 {
		return nil, false
	}

	pre, ok := rest[0].(*mdast.Element)
	if !ok || !hasTag(pre, mdast.TagPre) || len(pre.Children) != 1 {
		return nil, false
	}

	code, ok := pre.Children[0].(*mdast.Element)
	if !ok || !hasTag(code, mdast.TagCode) {
		return nil, false
	}
	if _, ok := code.SingleText(); !ok {
		return nil, false
	}

	var attrs []mdast.Attr
	if idx, found := lookupAttr(code.Attrs, mdast.AttrClass); found {
		attrs = mdast.CloneAttrs(code.Attrs)
		attrs[idx].Value += " " + classOutput
	} else {
		attrs = make([]mdast.Attr, 0, len(code.Attrs)+1)
		attrs = append(attrs, mdast.Attr{Name: mdast.AttrClass, Value: classOutput})
		attrs = append(attrs, code.Attrs...)
	}

	rebuilt := &mdast.Element{
		Tag:   pre.Tag,
		Attrs: pre.Attrs,
		Children: []mdast.Node{&mdast.Element{
			Tag:      code.Tag,
			Attrs:    attrs,
			Children: code.Children,
			Meta:     code.Meta,
		}},
		Meta: pre.Meta,
	}
	return rebuilt, true
}

// hasTag compares an element's tag after canonicalization, so trees built by
// hand with raw names match the same rules as parser output.
func hasTag(el *mdast.Element, tag mdast.Name) bool {
	return el != nil && (el.Tag == tag || mdast.Canonical(string(el.Tag)) == tag)
}

// lookupAttr finds the first attribute whose canonical name is name.
func lookupAttr(attrs []mdast.Attr, name mdast.Name) (int, bool) {
	for i, attr := range attrs {
		if attr.Name == name || mdast.Canonical(string(attr.Name)) == name {
			return i, true
		}
	}
	return -1, false
}

// firstAttrValue returns the value of the first attribute named name, or "".
func firstAttrValue(attrs []mdast.Attr, name mdast.Name) string {
	if idx, ok := lookupAttr(attrs, name); ok {
		return attrs[idx].Value
	}
	return ""
}
