// Package route extracts WebFlux route elements from a resolved syntax tree.
package route

import (
	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/syntax"
)

// Element is a named route construct and where it sits in the document.
type Element struct {
	Name  string         `json:"name"`
	Range document.Range `json:"range"`
}

// Locator converts byte spans to document ranges.
type Locator interface {
	ToRange(offset, length int) (document.Range, error)
}

// Diagnostic records a matched target that was dropped because its span could
// not be converted to a range.
type Diagnostic struct {
	Name string      `json:"name"`
	Span syntax.Span `json:"span"`
	Err  error       `json:"-"`
}

// Matcher collects Elements for one predicate during a single traversal.
// A Matcher accumulates state and must not be reused across trees.
type Matcher struct {
	doc       Locator
	predicate Predicate
	boundary  Boundary
	extract   Extractor

	results []Element
	diags   []Diagnostic
}

// NewMatcher binds a matcher to one document. It panics on a nil doc or
// extractor.
func NewMatcher(doc Locator, predicate Predicate, boundary Boundary, extract Extractor) *Matcher {
	if doc == nil {
		panic("route: NewMatcher called with nil document")
	}
	if extract == nil {
		panic("route: NewMatcher called with nil extractor")
	}
	return &Matcher{doc: doc, predicate: predicate, boundary: boundary, extract: extract}
}

// NewContentTypeMatcher matches RequestPredicates.contentType(NAME) and stops
// at the default route boundary.
func NewContentTypeMatcher(doc Locator) *Matcher {
	return NewMatcher(doc, ContentTypePredicate, DefaultBoundary(), FirstNameArgument)
}

// Visit is the traversal callback for syntax.Walk. It returns false for
// boundary calls so their subtrees are skipped.
func (m *Matcher) Visit(n syntax.Node) bool {
	call, ok := n.(*syntax.Call)
	if !ok || call.Method == nil {
		return true
	}
	if m.predicate.Matches(call.Method) {
		for _, t := range m.extract(call) {
			r, err := m.doc.ToRange(t.Span.Start, t.Span.Length)
			if err != nil {
				m.diags = append(m.diags, Diagnostic{Name: t.Name, Span: t.Span, Err: err})
				continue
			}
			m.results = append(m.results, Element{Name: t.Name, Range: r})
		}
	}
	return !m.boundary.Contains(call.Method)
}

// Results returns the elements found so far in traversal order.
func (m *Matcher) Results() []Element { return m.results }

// Diagnostics returns the targets dropped on range conversion failures.
func (m *Matcher) Diagnostics() []Diagnostic { return m.diags }
