package render

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLBuffer accumulates HTML output.
type HTMLBuffer struct {
	sb strings.Builder
}

// Raw appends markup verbatim.
func (b *HTMLBuffer) Raw(s string) { b.sb.WriteString(s) }

// Text appends s with HTML special characters escaped.
func (b *HTMLBuffer) Text(s string) { b.sb.WriteString(html.EscapeString(s)) }

// URL appends s escaped for use inside a double-quoted attribute.
func (b *HTMLBuffer) URL(s string) { b.sb.WriteString(html.EscapeString(s)) }

func (b *HTMLBuffer) String() string { return b.sb.String() }

// MarkdownBuffer accumulates Markdown output.
type MarkdownBuffer struct {
	sb strings.Builder
}

func (b *MarkdownBuffer) WriteString(s string) { b.sb.WriteString(s) }

// EndsWithNewline reports whether the last byte written is '\n'. An empty
// buffer does not end with a newline.
func (b *MarkdownBuffer) EndsWithNewline() bool {
	s := b.sb.String()
	return len(s) > 0 && s[len(s)-1] == '\n'
}

func (b *MarkdownBuffer) Len() int { return b.sb.Len() }

func (b *MarkdownBuffer) String() string { return b.sb.String() }
