// Package syntax defines the resolved syntax tree that route matchers run over.
//
// The node set is closed: only the types in this package implement Node, and
// consumers dispatch with a type switch.
package syntax

// Span is a byte range in the source text.
type Span struct {
	Start  int // byte offset, 0-based
	Length int
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Start + s.Length }

// Contains reports whether offset falls inside the span (end inclusive, so a
// cursor placed right after an identifier still hits it).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End()
}

// Node is a resolved syntax tree node.
type Node interface {
	Span() Span
	// Children returns the node's direct children in source order.
	Children() []Node
	node()
}

// MethodBinding is the resolved identity of a method call.
type MethodBinding struct {
	DeclaringType string // fully-qualified (binary) type name
	Name          string
}

// Call is a method invocation.
type Call struct {
	Pos      Span
	NameSpan Span
	// Method is nil when the binding could not be resolved.
	Method   *MethodBinding
	Receiver Node // nil for unqualified calls
	Args     []Node
}

// Name is a bare identifier.
type Name struct {
	Pos        Span
	Identifier string
}

// StringLit is a string literal; Value has the quotes removed.
type StringLit struct {
	Pos   Span
	Value string
}

// Block is any other construct. Kind carries the parser's node type
// ("program", "field_access", "lambda_expression", ...).
type Block struct {
	Pos   Span
	Kind  string
	Nodes []Node
}

func (c *Call) Span() Span      { return c.Pos }
func (n *Name) Span() Span      { return n.Pos }
func (s *StringLit) Span() Span { return s.Pos }
func (b *Block) Span() Span     { return b.Pos }

func (c *Call) Children() []Node {
	out := make([]Node, 0, len(c.Args)+1)
	if c.Receiver != nil {
		out = append(out, c.Receiver)
	}
	return append(out, c.Args...)
}

func (n *Name) Children() []Node      { return nil }
func (s *StringLit) Children() []Node { return nil }
func (b *Block) Children() []Node     { return b.Nodes }

func (*Call) node()      {}
func (*Name) node()      {}
func (*StringLit) node() {}
func (*Block) node()     {}
