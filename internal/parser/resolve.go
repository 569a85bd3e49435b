package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dgallion1/routelens/internal/webflux"
)

// imports is the name-resolution scope a compilation unit's import
// declarations establish.
type imports struct {
	types         map[string]string // simple name -> fully-qualified type
	packages      []string          // on-demand type imports
	staticMembers map[string]string // member name -> declaring type
	staticTypes   []string          // static on-demand imports
}

func newImports() *imports {
	return &imports{types: make(map[string]string), staticMembers: make(map[string]string)}
}

func parseImports(root *sitter.Node, src []byte) *imports {
	im := newImports()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "import_declaration" {
			im.add(child.Content(src))
		}
	}
	return im
}

// add records one declaration, e.g. "import static a.b.C.*;".
func (im *imports) add(decl string) {
	decl = strings.TrimSpace(decl)
	decl = strings.TrimPrefix(decl, "import")
	decl = strings.TrimSuffix(strings.TrimSpace(decl), ";")
	fields := strings.Fields(decl)
	if len(fields) == 0 {
		return
	}
	static := fields[0] == "static"
	if static {
		fields = fields[1:]
	}
	path := strings.Join(fields, "")
	if path == "" {
		return
	}

	onDemand := strings.HasSuffix(path, ".*")
	path = strings.TrimSuffix(path, ".*")
	switch {
	case static && onDemand:
		im.staticTypes = append(im.staticTypes, path)
	case static:
		owner, member := splitLast(path)
		im.staticMembers[member] = owner
	case onDemand:
		im.packages = append(im.packages, path)
	default:
		_, simple := splitLast(path)
		im.types[simple] = path
	}
}

// typeOf resolves a simple type name.
func (im *imports) typeOf(simple string) string {
	if fqn, ok := im.types[simple]; ok {
		return fqn
	}
	known, ok := webflux.KnownTypes[simple]
	if !ok {
		return ""
	}
	pkg, _ := splitLast(known)
	for _, p := range im.packages {
		if p == pkg {
			return known
		}
	}
	return ""
}

// staticOwner resolves the declaring type of an unqualified method call.
func (im *imports) staticOwner(method string) string {
	if owner, ok := im.staticMembers[method]; ok {
		return owner
	}
	for _, t := range im.staticTypes {
		if webflux.HasMethod(t, method) {
			return t
		}
	}
	return ""
}

// isKnownType reports whether a written-out qualified name is a known type.
func isKnownType(qualified string) bool {
	for _, fqn := range webflux.KnownTypes {
		if fqn == qualified {
			return true
		}
	}
	return false
}

func splitLast(path string) (string, string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
