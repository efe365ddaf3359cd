// Package normalize rewrites a parsed Markdown AST into its canonical form.
//
// The pass is pure: the input document is never modified and every rewritten
// element is a fresh node. It is total, so any document produced by the parser
// yields a result. Rules are tried in a fixed order for each node:
//
//  1. math round-trip (code.math-inline / code.math-display back to $ delimiters)
//  2. admonition blockquote (blockquote led by a classed h3/h4 becomes div[role=note])
//  3. notebook output merge (marker comment + pre>code becomes pre>code.output)
//  4. comment pass-through
//  5. generic element (canonical names, children normalized, meta kept)
//  6. text pass-through
package normalize

import "github.com/voughtdq/ex-doc/pkg/mdast"

// Document returns the canonical form of doc.
func Document(doc mdast.Document) mdast.Document {
	return normalizeSeq(doc)
}

// Node returns the canonical form of a single node. The result may hold zero,
// one or several nodes.
func Node(node mdast.Node) []mdast.Node {
	return normalizeNode(node)
}

// normalizeSeq scans a sibling sequence. It keeps an explicit work queue so the
// output merge rule can consume two siblings and push a rebuilt node back for
// regular processing.
func normalizeSeq(nodes []mdast.Node) []mdast.Node {
	if nodes == nil {
		return nil
	}

	out := make([]mdast.Node, 0, len(nodes))
	queue := nodes
	var pending mdast.Node

	for pending != nil || len(queue) > 0 {
		var current mdast.Node
		if pending != nil {
			current, pending = pending, nil
		} else {
			current, queue = queue[0], queue[1:]
		}

		if merged, ok := mergeOutput(current, queue); ok {
			pending = merged
			queue = queue[1:]
			continue
		}

		// Empty results are dropped rather than kept as placeholders.
		out = append(out, normalizeNode(current)...)
	}

	return out
}

// normalizeNode applies the single-node rules in precedence order. Nil
// nodes, typed or not, produce nothing.
func normalizeNode(node mdast.Node) []mdast.Node {
	switch n := node.(type) {
	case *mdast.Element:
		if n == nil {
			return nil
		}
		if text, ok := mathText(n); ok {
			return []mdast.Node{text}
		}
		if div, ok := admonition(n); ok {
			return []mdast.Node{div}
		}
		return []mdast.Node{element(n)}
	case *mdast.Comment:
		if n == nil {
			return nil
		}
		return []mdast.Node{n}
	case *mdast.Text:
		if n == nil {
			return nil
		}
		return []mdast.Node{n}
	case nil:
		return nil
	default:
		return []mdast.Node{n}
	}
}

// element is the generic element path: tag and attribute names are
// canonicalized, children normalized, and meta carried through unchanged.
func element(el *mdast.Element) *mdast.Element {
	return &mdast.Element{
		Tag:      mdast.Canonical(string(el.Tag)),
		Attrs:    canonicalAttrs(el.Attrs),
		Children: normalizeSeq(el.Children),
		Meta:     el.Meta,
	}
}

// canonicalAttrs returns a copy of attrs with canonical names. Values are untouched.
func canonicalAttrs(attrs []mdast.Attr) []mdast.Attr {
	if attrs == nil {
		return nil
	}
	out := make([]mdast.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = mdast.Attr{Name: mdast.Canonical(string(attr.Name)), Value: attr.Value}
	}
	return out
}
