package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n Node) error

// Walk performs a pre-order traversal of every node in the document.
// If walkFunc returns a non-nil error, the walk stops immediately and returns that error.
func Walk(doc Document, walkFunc WalkFunc) error {
	for _, node := range doc {
		if err := WalkNode(node, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// WalkNode performs a pre-order traversal starting at node.
func WalkNode(node Node, walkFunc WalkFunc) error {
	if node == nil {
		return nil
	}

	// Visit the current node.
	if err := walkFunc(node); err != nil {
		return err
	}

	el, ok := node.(*Element)
	if !ok {
		return nil
	}

	// Visit children.
	for _, child := range el.Children {
		if err := WalkNode(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkElements walks only element nodes.
func WalkElements(doc Document, fn func(el *Element) error) error {
	return Walk(doc, func(n Node) error {
		if el, ok := n.(*Element); ok {
			return fn(el)
		}
		return nil
	})
}

// FindAll returns all nodes matching the predicate.
func FindAll(doc Document, predicate func(n Node) bool) []Node {
	var result []Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(doc, func(node Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(doc Document, predicate func(n Node) bool) Node {
	var found Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(doc, func(node Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByTag returns all elements with the given tag.
func FindByTag(doc Document, tag Name) []*Element {
	var result []*Element
	for _, node := range FindAll(doc, func(n Node) bool { return Is(n, tag) }) {
		result = append(result, node.(*Element))
	}
	return result
}

// Counts tallies the nodes of each kind in a document.
type Counts struct {
	Texts    int
	Comments int
	Elements int
}

// Count walks the document and tallies nodes by kind.
func Count(doc Document) Counts {
	var counts Counts

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(doc, func(n Node) error {
		switch n.Kind() {
		case NodeText:
			counts.Texts++
		case NodeComment:
			counts.Comments++
		case NodeElement:
			counts.Elements++
		}
		return nil
	})

	return counts
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
