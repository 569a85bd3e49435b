// Package convert translates between the HTML and Markdown forms of hover text.
package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLToMarkdown converts HTML fragments to Markdown. It is stateless and safe
// for concurrent use.
type HTMLToMarkdown struct{}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Convert parses raw as an HTML fragment and writes it back out as Markdown.
func (HTMLToMarkdown) Convert(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	w := &mdWriter{}
	if body := findBody(doc); body != nil {
		w.children(body)
	} else {
		w.children(doc)
	}

	out := blankRuns.ReplaceAllString(w.sb.String(), "\n\n")
	return strings.Trim(out, "\n"), nil
}

type mdWriter struct {
	sb    strings.Builder
	depth int // list nesting
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.sb.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	if level := headingLevel(n.Data); level > 0 {
		w.block()
		w.sb.WriteString(strings.Repeat("#", level) + " " + textContent(n))
		w.block()
		return
	}

	switch n.Data {
	case "script", "style", "head":
	case "p", "div":
		w.block()
		w.children(n)
		w.block()
	case "br":
		w.sb.WriteString("  \n")
	case "b", "strong":
		w.wrap(n, "**")
	case "i", "em":
		w.wrap(n, "*")
	case "del", "s", "strike":
		w.wrap(n, "~~")
	case "code":
		w.sb.WriteString("`" + textContent(n) + "`")
	case "pre":
		w.block()
		w.sb.WriteString("```\n" + strings.TrimRight(rawText(n), "\n") + "\n```")
		w.block()
	case "a":
		href := attr(n, "href")
		if href == "" {
			w.children(n)
			return
		}
		w.sb.WriteString("[")
		w.children(n)
		w.sb.WriteString("](" + href + ")")
	case "ul", "ol":
		w.list(n, n.Data == "ol")
	case "blockquote":
		inner := &mdWriter{depth: w.depth}
		inner.children(n)
		w.block()
		for _, line := range strings.Split(strings.Trim(inner.sb.String(), "\n"), "\n") {
			w.sb.WriteString("> " + line + "\n")
		}
		w.block()
	default:
		w.children(n)
	}
}

func (w *mdWriter) wrap(n *html.Node, marker string) {
	w.sb.WriteString(marker)
	w.children(n)
	w.sb.WriteString(marker)
}

func (w *mdWriter) list(n *html.Node, ordered bool) {
	if w.depth == 0 {
		w.block()
	} else {
		w.newline()
	}
	w.depth++
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		i++
		w.sb.WriteString(strings.Repeat("  ", w.depth-1))
		if ordered {
			w.sb.WriteString(strconv.Itoa(i) + ". ")
		} else {
			w.sb.WriteString("- ")
		}
		w.children(c)
		w.newline()
	}
	w.depth--
	if w.depth == 0 {
		w.block()
	}
}

// block ends the current block with a blank line.
func (w *mdWriter) block() {
	s := w.sb.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		w.sb.WriteString("\n")
	default:
		w.sb.WriteString("\n\n")
	}
}

func (w *mdWriter) newline() {
	if s := w.sb.String(); s != "" && !strings.HasSuffix(s, "\n") {
		w.sb.WriteString("\n")
	}
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(collapseSpace(rawText(n)))
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
