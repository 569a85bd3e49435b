// Package render builds hover text as an immutable tree that renders to either
// HTML or Markdown.
package render

import (
	"errors"
	"io/fs"
)

// ErrEmptyConcat is the panic value of Concat called with no pieces.
var ErrEmptyConcat = errors.New("render: concat requires at least one piece")

// Kind tags a Renderable variant.
type Kind int

const (
	KindText Kind = iota
	KindBold
	KindItalic
	KindStrikeThrough
	KindParagraph
	KindLineBreak
	KindLink
	KindConcat
	KindLazy
	KindHTMLBlob
	KindResource
)

var kindNames = [...]string{
	KindText:          "text",
	KindBold:          "bold",
	KindItalic:        "italic",
	KindStrikeThrough: "strikeThrough",
	KindParagraph:     "paragraph",
	KindLineBreak:     "lineBreak",
	KindLink:          "link",
	KindConcat:        "concat",
	KindLazy:          "lazy",
	KindHTMLBlob:      "htmlBlob",
	KindResource:      "resource",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Renderable is an immutable recipe for formatted text. The zero value is an
// empty Text.
type Renderable struct {
	kind     Kind
	value    string // text, link text, raw HTML or resource path
	url      string
	children []Renderable
	lazy     func() Renderable
	fill     func(*HTMLBuffer)
	fsys     fs.FS
}

// Kind returns the variant tag.
func (r Renderable) Kind() Kind { return r.kind }

// Value returns the variant's string payload: the text of Text and Link, the
// markup of HTMLBlob, the path of FromResource.
func (r Renderable) Value() string { return r.value }

// URL returns a Link's target, "" when absent.
func (r Renderable) URL() string { return r.url }

// Children returns the wrapped pieces. Lazy values are not expanded.
func (r Renderable) Children() []Renderable {
	out := make([]Renderable, len(r.children))
	copy(out, r.children)
	return out
}

// Text is plain text. HTML output escapes it.
func Text(s string) Renderable { return Renderable{kind: KindText, value: s} }

// Bold renders r in bold.
func Bold(r Renderable) Renderable { return wrap(KindBold, r) }

// Italic renders r in italics.
func Italic(r Renderable) Renderable { return wrap(KindItalic, r) }

// StrikeThrough renders r struck through.
func StrikeThrough(r Renderable) Renderable { return wrap(KindStrikeThrough, r) }

// Paragraph sets r apart as its own block.
func Paragraph(r Renderable) Renderable { return wrap(KindParagraph, r) }

// LineBreak is a hard line break.
func LineBreak() Renderable { return Renderable{kind: KindLineBreak} }

// Link points text at url. An empty url means no target.
func Link(text, url string) Renderable {
	return Renderable{kind: KindLink, value: text, url: url}
}

// Concat joins pieces in order. A single piece is returned unchanged and no
// pieces at all panics with ErrEmptyConcat.
func Concat(pieces ...Renderable) Renderable {
	switch len(pieces) {
	case 0:
		panic(ErrEmptyConcat)
	case 1:
		return pieces[0]
	}
	children := make([]Renderable, len(pieces))
	copy(children, pieces)
	return Renderable{kind: KindConcat, children: children}
}

// Lazy calls f on every render and renders its result. Results are never cached.
func Lazy(f func() Renderable) Renderable {
	if f == nil {
		panic("render: Lazy called with nil func")
	}
	return Renderable{kind: KindLazy, lazy: f}
}

// HTMLBlob is raw HTML. In Markdown it goes through the Renderer's Converter.
func HTMLBlob(raw string) Renderable {
	return Renderable{kind: KindHTMLBlob, value: raw}
}

// HTMLContent is an HTMLBlob whose markup is written by fill on each render.
func HTMLContent(fill func(*HTMLBuffer)) Renderable {
	if fill == nil {
		panic("render: HTMLContent called with nil func")
	}
	return Renderable{kind: KindHTMLBlob, fill: fill}
}

// FromResource renders path+".html" or path+".md" read from fsys, falling back
// to NoDescription when the file cannot be read.
func FromResource(fsys fs.FS, path string) Renderable {
	return Renderable{kind: KindResource, value: path, fsys: fsys}
}

// NoDescription is the placeholder for missing documentation.
func NoDescription() Renderable { return Italic(Text("no description")) }

func wrap(k Kind, r Renderable) Renderable {
	return Renderable{kind: k, children: []Renderable{r}}
}
