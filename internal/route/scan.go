package route

import (
	"sort"

	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/syntax"
	"github.com/dgallion1/routelens/internal/webflux"
)

// ElementKind names a family of route elements.
type ElementKind string

const (
	KindPath        ElementKind = "path"
	KindMethod      ElementKind = "method"
	KindAccept      ElementKind = "accept"
	KindContentType ElementKind = "contentType"
)

// Family pairs an element kind with the predicate and extractor that find it.
type Family struct {
	Kind      ElementKind
	Predicate Predicate
	Extract   Extractor
}

// DefaultFamilies returns the path, method, accept and content-type families.
func DefaultFamilies() []Family {
	pathMethods := append([]string{webflux.PathMethod}, webflux.HTTPMethods...)
	methodMethods := append([]string{webflux.MethodMethod}, webflux.HTTPMethods...)
	return []Family{
		{Kind: KindPath, Predicate: Predicate{DeclaringType: webflux.RequestPredicatesType, Methods: pathMethods}, Extract: FirstStringArgument},
		{Kind: KindMethod, Predicate: Predicate{DeclaringType: webflux.RequestPredicatesType, Methods: methodMethods}, Extract: MethodName},
		{Kind: KindAccept, Predicate: Predicate{DeclaringType: webflux.RequestPredicatesType, Methods: []string{webflux.AcceptMethod}}, Extract: NameArguments},
		{Kind: KindContentType, Predicate: ContentTypePredicate, Extract: FirstNameArgument},
	}
}

// Route is one route-definition call and the elements of its predicate.
type Route struct {
	Kind         string         `json:"kind"`
	Range        document.Range `json:"range"`
	Span         syntax.Span    `json:"-"`
	Paths        []Element      `json:"paths,omitempty"`
	Methods      []Element      `json:"methods,omitempty"`
	AcceptTypes  []Element      `json:"acceptTypes,omitempty"`
	ContentTypes []Element      `json:"contentTypes,omitempty"`
}

// Elements returns the route's elements of one kind.
func (r *Route) Elements(kind ElementKind) []Element {
	switch kind {
	case KindPath:
		return r.Paths
	case KindMethod:
		return r.Methods
	case KindAccept:
		return r.AcceptTypes
	case KindContentType:
		return r.ContentTypes
	}
	return nil
}

func (r *Route) set(kind ElementKind, els []Element) {
	switch kind {
	case KindPath:
		r.Paths = els
	case KindMethod:
		r.Methods = els
	case KindAccept:
		r.AcceptTypes = els
	case KindContentType:
		r.ContentTypes = els
	}
}

// Scanner finds every route definition in a tree.
type Scanner struct {
	Boundary Boundary
	Families []Family
}

// NewScanner returns a Scanner with the default boundary and families.
func NewScanner() *Scanner {
	return &Scanner{Boundary: DefaultBoundary(), Families: DefaultFamilies()}
}

// Scan uses the default Scanner and discards diagnostics.
func Scan(doc Locator, root syntax.Node) []Route {
	routes, _ := NewScanner().Scan(doc, root)
	return routes
}

// Scan walks the whole tree. For every boundary call with a predicate argument
// it runs one fresh Matcher per family over that argument. Routes come back
// ordered by their position in the source.
func (s *Scanner) Scan(doc Locator, root syntax.Node) ([]Route, []Diagnostic) {
	var (
		routes []Route
		diags  []Diagnostic
	)
	syntax.Walk(root, func(n syntax.Node) bool {
		call, ok := n.(*syntax.Call)
		if !ok || !s.Boundary.Contains(call.Method) || len(call.Args) == 0 {
			return true
		}
		span := definitionSpan(call)
		rng, err := doc.ToRange(span.Start, span.Length)
		if err != nil {
			diags = append(diags, Diagnostic{Name: call.Method.Name, Span: span, Err: err})
			return true
		}
		rt := Route{Kind: call.Method.Name, Range: rng, Span: span}
		for _, f := range s.Families {
			m := NewMatcher(doc, f.Predicate, s.Boundary, f.Extract)
			syntax.Walk(call.Args[0], m.Visit)
			rt.set(f.Kind, append(rt.Elements(f.Kind), m.Results()...))
			diags = append(diags, m.Diagnostics()...)
		}
		routes = append(routes, rt)
		return true
	})
	sort.SliceStable(routes, func(i, j int) bool { return routes[i].Span.Start < routes[j].Span.Start })
	return routes, diags
}

// definitionSpan trims a chained receiver so route(a).andRoute(b) gives
// andRoute its own "andRoute(b)" span.
func definitionSpan(call *syntax.Call) syntax.Span {
	if _, chained := call.Receiver.(*syntax.Call); chained {
		return syntax.Span{Start: call.NameSpan.Start, Length: call.Pos.End() - call.NameSpan.Start}
	}
	return call.Pos
}
