package route

import (
	"github.com/dgallion1/routelens/internal/syntax"
	"github.com/dgallion1/routelens/internal/webflux"
)

// Target is a piece of a matched call that becomes an Element.
type Target struct {
	Name string
	Span syntax.Span
}

// Extractor picks the targets out of a matched call. Calls of an unexpected
// shape yield nothing.
type Extractor func(call *syntax.Call) []Target

// FirstNameArgument accepts a first argument that is a simple name
// (APPLICATION_JSON) or a qualified name (MediaType.APPLICATION_JSON). The
// target is the last identifier in either case.
func FirstNameArgument(call *syntax.Call) []Target {
	if len(call.Args) == 0 {
		return nil
	}
	if t, ok := simpleName(call.Args[0]); ok {
		return []Target{t}
	}
	return nil
}

// NameArguments accepts every argument that is a simple or qualified name,
// for varargs predicates such as accept(...).
func NameArguments(call *syntax.Call) []Target {
	var out []Target
	for _, a := range call.Args {
		if t, ok := simpleName(a); ok {
			out = append(out, t)
		}
	}
	return out
}

// FirstStringArgument accepts a first argument that is a string literal.
func FirstStringArgument(call *syntax.Call) []Target {
	if len(call.Args) == 0 {
		return nil
	}
	if s, ok := call.Args[0].(*syntax.StringLit); ok {
		return []Target{{Name: s.Value, Span: s.Pos}}
	}
	return nil
}

// MethodName targets the invoked method's own name, so GET("/x") yields "GET".
// method(HttpMethod.PUT) falls back to the name argument. Any other call
// yields nothing.
func MethodName(call *syntax.Call) []Target {
	if call.Method == nil {
		return nil
	}
	switch name := call.Method.Name; {
	case name == webflux.MethodMethod:
		return FirstNameArgument(call)
	case webflux.IsHTTPMethod(name):
		return []Target{{Name: name, Span: call.NameSpan}}
	}
	return nil
}

func simpleName(n syntax.Node) (Target, bool) {
	switch n := n.(type) {
	case *syntax.Name:
		return Target{Name: n.Identifier, Span: n.Pos}, true
	case *syntax.Block:
		if n.Kind != "field_access" && n.Kind != "scoped_identifier" || len(n.Nodes) == 0 {
			return Target{}, false
		}
		for _, part := range n.Nodes {
			if _, ok := simpleName(part); !ok {
				return Target{}, false
			}
		}
		return simpleName(n.Nodes[len(n.Nodes)-1])
	}
	return Target{}, false
}
