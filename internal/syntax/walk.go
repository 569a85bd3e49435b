package syntax

// Walk traverses the tree rooted at root depth-first in source order, calling
// visit on every node. When visit returns false the node's children are skipped.
// A nil root is a programming error.
func Walk(root Node, visit func(Node) bool) {
	if root == nil {
		panic("syntax: Walk called with nil root")
	}
	walk(root, visit)
}

func walk(n Node, visit func(Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		if child != nil {
			walk(child, visit)
		}
	}
}

// Text returns the source text covered by n, or "" when the span is out of range.
func Text(n Node, src []byte) string {
	s := n.Span()
	if s.Start < 0 || s.End() > len(src) || s.Length < 0 {
		return ""
	}
	return string(src[s.Start:s.End()])
}
