package render

import (
	"fmt"
	"io/fs"
	"log/slog"
)

// Converter turns HTML into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// Renderer carries the collaborators a render needs. The zero value is usable:
// without a Converter, HTML blobs pass through into Markdown unchanged, and
// without a Log, slog.Default is used.
type Renderer struct {
	Converter Converter
	Log       *slog.Logger
}

// HTML renders r to an HTML string.
func (rr Renderer) HTML(r Renderable) string {
	var out HTMLBuffer
	rr.RenderHTML(r, &out)
	return out.String()
}

// Markdown renders r to a Markdown string.
func (rr Renderer) Markdown(r Renderable) string {
	var out MarkdownBuffer
	rr.RenderMarkdown(r, &out)
	return out.String()
}

// RenderHTML appends r to out.
func (rr Renderer) RenderHTML(r Renderable, out *HTMLBuffer) {
	switch r.kind {
	case KindText:
		out.Text(r.value)
	case KindBold:
		rr.wrapHTML(out, "b", r.children[0])
	case KindItalic:
		rr.wrapHTML(out, "i", r.children[0])
	case KindStrikeThrough:
		rr.wrapHTML(out, "del", r.children[0])
	case KindParagraph:
		rr.wrapHTML(out, "p", r.children[0])
	case KindLineBreak:
		out.Raw("<br>")
	case KindLink:
		out.Raw(`<a href="`)
		out.URL(r.url)
		out.Raw(`">`)
		out.Text(r.value)
		out.Raw("</a>")
	case KindConcat:
		for _, c := range r.children {
			rr.RenderHTML(c, out)
		}
	case KindLazy:
		rr.RenderHTML(r.lazy(), out)
	case KindHTMLBlob:
		if r.fill != nil {
			r.fill(out)
			return
		}
		out.Raw(r.value)
	case KindResource:
		content, err := rr.load(r, ".html")
		if err != nil {
			rr.RenderHTML(NoDescription(), out)
			return
		}
		out.Raw(content)
	}
}

// RenderMarkdown appends r to out.
func (rr Renderer) RenderMarkdown(r Renderable, out *MarkdownBuffer) {
	switch r.kind {
	case KindText:
		// TODO: escape Markdown metacharacters in plain text.
		out.WriteString(r.value)
	case KindBold:
		rr.wrapMarkdown(out, "**", "**", r.children[0])
	case KindItalic:
		rr.wrapMarkdown(out, "*", "*", r.children[0])
	case KindStrikeThrough:
		rr.wrapMarkdown(out, "~~", "~~", r.children[0])
	case KindParagraph:
		rr.wrapMarkdown(out, "\n", "\n", r.children[0])
	case KindLineBreak:
		if !out.EndsWithNewline() {
			out.WriteString("  ")
		}
		out.WriteString("\n")
	case KindLink:
		out.WriteString("[" + r.value + "]")
		if r.url != "" {
			out.WriteString("(" + r.url + ")")
		}
	case KindConcat:
		for _, c := range r.children {
			rr.RenderMarkdown(c, out)
		}
	case KindLazy:
		rr.RenderMarkdown(r.lazy(), out)
	case KindHTMLBlob:
		var h HTMLBuffer
		rr.RenderHTML(r, &h)
		out.WriteString(rr.convert(h.String()))
	case KindResource:
		content, err := rr.load(r, ".md")
		if err != nil {
			rr.RenderMarkdown(NoDescription(), out)
			return
		}
		out.WriteString(content)
	}
}

func (rr Renderer) wrapHTML(out *HTMLBuffer, tag string, child Renderable) {
	out.Raw("<" + tag + ">")
	rr.RenderHTML(child, out)
	out.Raw("</" + tag + ">")
}

func (rr Renderer) wrapMarkdown(out *MarkdownBuffer, open, close string, child Renderable) {
	out.WriteString(open)
	rr.RenderMarkdown(child, out)
	out.WriteString(close)
}

func (rr Renderer) convert(raw string) string {
	if rr.Converter == nil {
		return raw
	}
	md, err := rr.Converter.Convert(raw)
	if err != nil {
		rr.logger().Error("html conversion failed", "error", err)
		return raw
	}
	return md
}

// load reads the resource for one format and logs a single error on failure.
func (rr Renderer) load(r Renderable, ext string) (string, error) {
	name := r.value + ext
	if r.fsys == nil {
		err := fmt.Errorf("read resource %s: no resource scope", name)
		rr.logger().Error("resource unavailable", "path", name, "error", err)
		return "", err
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		err = fmt.Errorf("read resource %s: %w", name, err)
		rr.logger().Error("resource unavailable", "path", name, "error", err)
		return "", err
	}
	return string(data), nil
}

func (rr Renderer) logger() *slog.Logger {
	if rr.Log != nil {
		return rr.Log
	}
	return slog.Default()
}
