package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/dgallion1/routelens/internal/syntax"
	"github.com/dgallion1/routelens/internal/webflux"
)

// JavaParser parses Java with tree-sitter and resolves method bindings for
// the WebFlux routing API from the file's imports. Calls it cannot type are
// left with a nil binding.
type JavaParser struct{}

func (p *JavaParser) Parse(ctx context.Context, src []byte, filename string) (syntax.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	b := &builder{
		src:     src,
		imports: parseImports(root, src),
		returns: make(map[*syntax.Call]string),
	}
	return b.node(root), nil
}

type builder struct {
	src     []byte
	imports *imports
	// declared return types of resolved calls, for typing chained receivers
	returns map[*syntax.Call]string
}

func (b *builder) node(n *sitter.Node) syntax.Node {
	switch n.Type() {
	case "line_comment", "block_comment", "comment":
		return nil
	case "method_invocation":
		return b.call(n)
	case "identifier", "type_identifier":
		return &syntax.Name{Pos: span(n), Identifier: n.Content(b.src)}
	case "string_literal":
		return &syntax.StringLit{Pos: span(n), Value: unquote(n.Content(b.src))}
	}
	return &syntax.Block{Pos: span(n), Kind: n.Type(), Nodes: b.children(n)}
}

func (b *builder) children(n *sitter.Node) []syntax.Node {
	var out []syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := b.node(n.NamedChild(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (b *builder) call(n *sitter.Node) *syntax.Call {
	c := &syntax.Call{Pos: span(n)}
	if obj := n.ChildByFieldName("object"); obj != nil {
		c.Receiver = b.node(obj)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		c.Args = b.children(args)
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return c
	}
	c.NameSpan = span(name)

	method := name.Content(b.src)
	var owner string
	if c.Receiver == nil {
		owner = b.imports.staticOwner(method)
	} else {
		owner = b.receiverType(c.Receiver)
	}
	if owner != "" {
		c.Method = &syntax.MethodBinding{DeclaringType: owner, Name: method}
		b.returns[c] = webflux.ReturnType(owner, method)
	}
	return c
}

// receiverType types a call's receiver: a chained call, an imported simple
// type name, or a fully-qualified type name written out.
func (b *builder) receiverType(recv syntax.Node) string {
	switch r := recv.(type) {
	case *syntax.Call:
		return b.returns[r]
	case *syntax.Name:
		return b.imports.typeOf(r.Identifier)
	case *syntax.Block:
		if r.Kind != "field_access" && r.Kind != "scoped_identifier" {
			return ""
		}
		qualified := strings.Join(strings.Fields(syntax.Text(r, b.src)), "")
		if isKnownType(qualified) {
			return qualified
		}
	}
	return ""
}

func span(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: int(n.StartByte()), Length: int(n.EndByte() - n.StartByte())}
}

func unquote(lit string) string {
	if strings.HasPrefix(lit, `"""`) && strings.HasSuffix(lit, `"""`) && len(lit) >= 6 {
		return lit[3 : len(lit)-3]
	}
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.Trim(lit, `"`)
}
