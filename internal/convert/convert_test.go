package convert

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "<b>JSON</b> media type", "**JSON** media type"},
		{"strong and em", "<strong>a</strong> <em>b</em>", "**a** *b*"},
		{"strike", "<del>old</del>", "~~old~~"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"line break", "a<br>b", "a  \nb"},
		{"link", `<a href="https://spring.io">docs</a>`, "[docs](https://spring.io)"},
		{"link without href", "<a>docs</a>", "docs"},
		{"unordered list", "<ul><li>a</li><li>b</li></ul>", "- a\n- b"},
		{"ordered list", "<ol><li>a</li><li>b</li></ol>", "1. a\n2. b"},
		{"heading", "<h2>Title</h2><p>x</p>", "## Title\n\nx"},
		{"pre", "<pre><code>int x;\nint y;</code></pre>", "```\nint x;\nint y;\n```"},
		{"inline code", "use <code>MediaType</code>", "use `MediaType`"},
		{"entities", "&lt;T&gt; &amp; more", "<T> & more"},
		{"script dropped", "<script>alert(1)</script>ok", "ok"},
		{"blockquote", "<blockquote>quote</blockquote>", "> quote"},
		{"whitespace collapsed", "a \n\t b", "a b"},
	}

	var c HTMLToMarkdown
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHTMLToMarkdown_NestedList(t *testing.T) {
	var c HTMLToMarkdown
	got, err := c.Convert("<ul><li>a<ul><li>b</li></ul></li></ul>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "- a\n  - b") {
		t.Errorf("expected nested item, got %q", got)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	got, err := MarkdownToHTML("**a** ~~b~~ [c](https://x)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<strong>a</strong>", "<del>b</del>", `<a href="https://x">c</a>`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}

func TestMarkdownToHTML_RawHTMLPassesThrough(t *testing.T) {
	got, err := MarkdownToHTML("<span class=\"kd\">public</span>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `<span class="kd">public</span>`) {
		t.Errorf("expected raw html to be kept, got %q", got)
	}
}
