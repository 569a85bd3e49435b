// Package hover assembles the documentation shown when hovering a route element.
package hover

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dgallion1/routelens/internal/render"
	"github.com/dgallion1/routelens/internal/route"
)

//go:embed docs
var embedded embed.FS

// Docs is the resource scope holding media type descriptions.
var Docs fs.FS = mustSub(embedded, "docs")

const (
	mediaTypeDocs = "https://docs.spring.io/spring-framework/docs/current/javadoc-api/org/springframework/http/MediaType.html#"
	maxSnippet    = 12 // lines
)

var labels = map[route.ElementKind]string{
	route.KindContentType: "Content type:",
	route.KindAccept:      "Accept:",
	route.KindPath:        "Path:",
	route.KindMethod:      "Method:",
}

// ForElement builds the hover for el, one of rt's elements of the given kind.
// src is the file the route came from; with a nil src no code snippet is added.
func ForElement(rt *route.Route, el route.Element, kind route.ElementKind, src []byte) render.Renderable {
	mediaType := kind == route.KindContentType || kind == route.KindAccept

	name := render.Text(el.Name)
	if mediaType {
		name = render.Link(el.Name, mediaTypeDocs+el.Name)
	}
	pieces := []render.Renderable{
		render.Bold(render.Text(labels[kind])),
		render.Text(" "),
		name,
		render.Paragraph(Summary(rt)),
	}
	if code := snippet(rt, src); code != "" {
		pieces = append(pieces, render.HTMLContent(func(b *render.HTMLBuffer) { highlight(b, code) }))
	}
	if mediaType {
		pieces = append(pieces, render.Lazy(func() render.Renderable {
			return render.Paragraph(MediaTypeDoc(el.Name))
		}))
	}
	return render.Concat(pieces...)
}

// Summary describes a whole route: its kind, methods and paths, then one line
// per media type constraint.
func Summary(rt *route.Route) render.Renderable {
	var head []string
	if ms := elementNames(rt.Methods); len(ms) > 0 {
		head = append(head, strings.Join(ms, "|"))
	}
	if ps := elementNames(rt.Paths); len(ps) > 0 {
		head = append(head, strings.Join(ps, ", "))
	}
	if len(head) == 0 {
		head = append(head, "(any request)")
	}

	pieces := []render.Renderable{
		render.Italic(render.Text(rt.Kind)),
		render.Text(" " + strings.Join(head, " ")),
	}
	if as := elementNames(rt.AcceptTypes); len(as) > 0 {
		pieces = append(pieces, render.LineBreak(), render.Text("Accept: "+strings.Join(as, ", ")))
	}
	if cs := elementNames(rt.ContentTypes); len(cs) > 0 {
		pieces = append(pieces, render.LineBreak(), render.Text("Content type: "+strings.Join(cs, ", ")))
	}
	return render.Concat(pieces...)
}

func elementNames(els []route.Element) []string {
	out := make([]string, 0, len(els))
	for _, e := range els {
		out = append(out, e.Name)
	}
	return out
}

func snippet(rt *route.Route, src []byte) string {
	s := rt.Span
	if src == nil || s.Start < 0 || s.Length <= 0 || s.End() > len(src) {
		return ""
	}
	lines := strings.Split(string(src[s.Start:s.End()]), "\n")
	if len(lines) > maxSnippet {
		lines = append(lines[:maxSnippet], "...")
	}
	return strings.Join(lines, "\n")
}

// highlight writes code as chroma-highlighted Java, falling back to a plain
// escaped block.
func highlight(b *render.HTMLBuffer, code string) {
	lex := lexers.Get("java")
	if lex != nil {
		it, err := chroma.Coalesce(lex).Tokenise(nil, code)
		if err == nil {
			var sb strings.Builder
			f := chromahtml.New(chromahtml.WithClasses(true))
			if err := f.Format(&sb, styles.Get("github"), it); err == nil {
				b.Raw(sb.String())
				return
			}
		}
	}
	b.Raw("<pre><code>")
	b.Text(code)
	b.Raw("</code></pre>")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// MediaTypes lists the media type constants that have documentation, sorted.
func MediaTypes() ([]string, error) {
	entries, err := fs.ReadDir(Docs, "mediatypes")
	if err != nil {
		return nil, fmt.Errorf("list media type docs: %w", err)
	}
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// MediaTypeDoc returns the documentation resource for one media type constant.
func MediaTypeDoc(name string) render.Renderable {
	return render.FromResource(Docs, "mediatypes/"+name)
}
