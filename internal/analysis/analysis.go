// Package analysis runs one synchronous parse-and-scan pass over a source file.
package analysis

import (
	"context"
	"fmt"

	"github.com/dgallion1/routelens/internal/document"
	"github.com/dgallion1/routelens/internal/parser"
	"github.com/dgallion1/routelens/internal/route"
)

// Result is everything one pass found in a file.
type Result struct {
	Filename    string
	Source      []byte
	Document    *document.TextDocument
	Routes      []route.Route
	Diagnostics []route.Diagnostic
}

// Hit is a route element found under a cursor position.
type Hit struct {
	Route   *route.Route
	Element route.Element
	Kind    route.ElementKind
}

// Analyzer parses files and scans them for routes.
type Analyzer struct {
	scanner *route.Scanner
}

// New returns an Analyzer using scanner, or the default scanner when nil.
func New(scanner *route.Scanner) *Analyzer {
	if scanner == nil {
		scanner = route.NewScanner()
	}
	return &Analyzer{scanner: scanner}
}

// Analyze runs the default Analyzer.
func Analyze(ctx context.Context, filename string, src []byte) (*Result, error) {
	return New(nil).Analyze(ctx, filename, src)
}

func (a *Analyzer) Analyze(ctx context.Context, filename string, src []byte) (*Result, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	root, err := p.Parse(ctx, src, filename)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", filename, err)
	}

	doc := document.New(filename, string(src))
	routes, diags := a.scanner.Scan(doc, root)
	return &Result{
		Filename:    filename,
		Source:      src,
		Document:    doc,
		Routes:      routes,
		Diagnostics: diags,
	}, nil
}

var hitOrder = []route.ElementKind{route.KindContentType, route.KindAccept, route.KindPath, route.KindMethod}

// ElementAt returns the element whose range covers pos. Nested routes are
// searched innermost first.
func (r *Result) ElementAt(pos document.Position) (Hit, bool) {
	for i := len(r.Routes) - 1; i >= 0; i-- {
		rt := &r.Routes[i]
		for _, kind := range hitOrder {
			for _, el := range rt.Elements(kind) {
				if el.Range.Contains(pos) {
					return Hit{Route: rt, Element: el, Kind: kind}, true
				}
			}
		}
	}
	return Hit{}, false
}

// ElementCount totals the elements across all routes.
func (r *Result) ElementCount() int {
	n := 0
	for i := range r.Routes {
		rt := &r.Routes[i]
		n += len(rt.Paths) + len(rt.Methods) + len(rt.AcceptTypes) + len(rt.ContentTypes)
	}
	return n
}
