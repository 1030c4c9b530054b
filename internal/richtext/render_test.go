package richtext

import (
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name string
		doc  *Doc
		want string
	}{
		{
			name: "nil document",
			doc:  nil,
			want: "",
		},
		{
			name: "heading and paragraph",
			doc: &Doc{Type: "doc", Content: []*Node{
				heading(2, "Section"),
				Paragraph("body text"),
			}},
			want: "<h2>Section</h2>\n<p>body text</p>",
		},
		{
			name: "out of range heading level falls back to h1",
			doc: &Doc{Type: "doc", Content: []*Node{
				heading(9, "Weird"),
			}},
			want: "<h1>Weird</h1>",
		},
		{
			name: "text is escaped",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph("a < b & c"),
			}},
			want: "<p>a &lt; b &amp; c</p>",
		},
		{
			name: "bullet list",
			doc: &Doc{Type: "doc", Content: []*Node{
				bulletList("one", "two"),
			}},
			want: "<ul>\n<li>one</li>\n<li>two</li>\n</ul>",
		},
		{
			name: "marks nest innermost-first",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "paragraph", Content: []*Node{
					{Type: "text", Text: "both", Marks: []Mark{{Type: "bold"}, {Type: "italic"}}},
				}},
			}},
			want: "<p><strong><em>both</em></strong></p>",
		},
		{
			name: "link mark",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "paragraph", Content: []*Node{
					{Type: "text", Text: "here", Marks: []Mark{{Type: "link", Attrs: map[string]any{"href": "https://example.com"}}}},
				}},
			}},
			want: `<p><a href="https://example.com">here</a></p>`,
		},
		{
			name: "code block with language",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "codeBlock", Attrs: map[string]any{"language": "go"}, Content: []*Node{
					{Type: "text", Text: "x := 1"},
				}},
			}},
			want: `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name: "image node",
			doc: &Doc{Type: "doc", Content: []*Node{
				Image("https://cdn.example.com/a.png"),
			}},
			want: `<img src="https://cdn.example.com/a.png" alt="">`,
		},
		{
			name: "unknown block degrades to children",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "futureWidget", Content: []*Node{Paragraph("still visible")}},
			}},
			want: "<p>still visible</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderHTML(tt.doc)
			if got != tt.want {
				t.Errorf("RenderHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name string
		doc  *Doc
		want string
	}{
		{
			name: "heading levels",
			doc: &Doc{Type: "doc", Content: []*Node{
				heading(1, "Top"),
				heading(3, "Deep"),
			}},
			want: "# Top\n\n### Deep",
		},
		{
			name: "ordered list numbering",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "orderedList", Content: []*Node{
					{Type: "listItem", Content: []*Node{Paragraph("first")}},
					{Type: "listItem", Content: []*Node{Paragraph("second")}},
				}},
			}},
			want: "1. first\n2. second",
		},
		{
			name: "task list checkboxes",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "taskList", Content: []*Node{
					{Type: "taskItem", Attrs: map[string]any{"checked": true}, Content: []*Node{Paragraph("done")}},
					{Type: "taskItem", Attrs: map[string]any{"checked": false}, Content: []*Node{Paragraph("todo")}},
				}},
			}},
			want: "- [x] done\n- [ ] todo",
		},
		{
			name: "marks",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "paragraph", Content: []*Node{
					{Type: "text", Text: "bold", Marks: []Mark{{Type: "bold"}}},
					{Type: "text", Text: " and "},
					{Type: "text", Text: "code", Marks: []Mark{{Type: "code"}}},
				}},
			}},
			want: "**bold** and `code`",
		},
		{
			name: "blockquote",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "blockquote", Content: []*Node{Paragraph("quoted")}},
			}},
			want: "> quoted",
		},
		{
			name: "horizontal rule",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph("above"),
				{Type: "horizontalRule"},
				Paragraph("below"),
			}},
			want: "above\n\n---\n\nbelow",
		},
		{
			name: "image",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "image", Attrs: map[string]any{"src": "pic.png", "alt": "a picture"}},
			}},
			want: "![a picture](pic.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderMarkdown(tt.doc)
			if got != tt.want {
				t.Errorf("RenderMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

// JSON attrs decode numbers as float64; the renderers must cope.
func TestRenderHTMLAfterJSONRoundTrip(t *testing.T) {
	raw := `{"type":"doc","content":[{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"From JSON"}]}]}`
	d, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := RenderHTML(d)
	if !strings.Contains(got, "<h2>From JSON</h2>") {
		t.Errorf("heading level lost in round trip: %q", got)
	}
}
