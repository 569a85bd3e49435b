package route

import (
	"github.com/dgallion1/routelens/internal/syntax"
	"github.com/dgallion1/routelens/internal/webflux"
)

// Predicate is a call shape: a fully-qualified declaring type and the method
// names on it that match.
type Predicate struct {
	DeclaringType string   `yaml:"type" json:"type"`
	Methods       []string `yaml:"methods" json:"methods"`
}

// Matches reports whether b resolves to one of the predicate's methods.
func (p Predicate) Matches(b *syntax.MethodBinding) bool {
	if b == nil || b.DeclaringType != p.DeclaringType {
		return false
	}
	for _, m := range p.Methods {
		if m == b.Name {
			return true
		}
	}
	return false
}

// ContentTypePredicate is RequestPredicates#contentType.
var ContentTypePredicate = Predicate{
	DeclaringType: webflux.RequestPredicatesType,
	Methods:       []string{webflux.ContentTypeMethod},
}

// Boundary is the set of route-definition calls a Matcher never descends into.
// The zero value contains nothing.
type Boundary struct {
	calls map[string]struct{}
}

// NewBoundary builds a Boundary covering every method of every predicate.
func NewBoundary(preds ...Predicate) Boundary {
	b := Boundary{calls: make(map[string]struct{})}
	for _, p := range preds {
		for _, m := range p.Methods {
			b.calls[p.DeclaringType+"#"+m] = struct{}{}
		}
	}
	return b
}

// DefaultBoundary covers every call in webflux.RouteCalls.
func DefaultBoundary() Boundary {
	preds := make([]Predicate, 0, len(webflux.RouteCalls))
	for typ, methods := range webflux.RouteCalls {
		preds = append(preds, Predicate{DeclaringType: typ, Methods: methods})
	}
	return NewBoundary(preds...)
}

// Contains reports whether b is a boundary call. A nil binding is never one.
func (bd Boundary) Contains(b *syntax.MethodBinding) bool {
	if b == nil {
		return false
	}
	_, ok := bd.calls[b.DeclaringType+"#"+b.Name]
	return ok
}
