package richtext

import (
	"testing"
)

func heading(level int, text string) *Node {
	return &Node{
		Type:    "heading",
		Attrs:   map[string]any{"level": level},
		Content: []*Node{{Type: "text", Text: text}},
	}
}

func bulletList(items ...string) *Node {
	n := &Node{Type: "bulletList"}
	for _, item := range items {
		n.Content = append(n.Content, &Node{
			Type:    "listItem",
			Content: []*Node{Paragraph(item)},
		})
	}
	return n
}

func TestDeriveMetrics(t *testing.T) {
	tests := []struct {
		name      string
		doc       *Doc
		wantText  string
		wantWords int
	}{
		{
			name:      "nil document",
			doc:       nil,
			wantText:  "",
			wantWords: 0,
		},
		{
			name:      "empty document",
			doc:       NewDoc(),
			wantText:  "",
			wantWords: 0,
		},
		{
			name: "empty paragraph",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph(""),
			}},
			wantText:  "",
			wantWords: 0,
		},
		{
			name: "single paragraph",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph("Hello"),
			}},
			wantText:  "Hello",
			wantWords: 1,
		},
		{
			name: "blocks joined with blank line",
			doc: &Doc{Type: "doc", Content: []*Node{
				heading(1, "Title"),
				Paragraph("first paragraph"),
				Paragraph("second one"),
			}},
			wantText:  "Title\n\nfirst paragraph\n\nsecond one",
			wantWords: 5,
		},
		{
			name: "hard break becomes newline",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "paragraph", Content: []*Node{
					{Type: "text", Text: "line one"},
					{Type: "hardBreak"},
					{Type: "text", Text: "line two"},
				}},
			}},
			wantText:  "line one\nline two",
			wantWords: 4,
		},
		{
			name: "list items separated so words never run together",
			doc: &Doc{Type: "doc", Content: []*Node{
				bulletList("milk", "eggs", "bread"),
			}},
			wantText:  "milk\neggs\nbread",
			wantWords: 3,
		},
		{
			name: "marks do not affect the text",
			doc: &Doc{Type: "doc", Content: []*Node{
				{Type: "paragraph", Content: []*Node{
					{Type: "text", Text: "bold", Marks: []Mark{{Type: "bold"}}},
					{Type: "text", Text: " and plain"},
				}},
			}},
			wantText:  "bold and plain",
			wantWords: 3,
		},
		{
			name: "image contributes no words",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph("before"),
				Image("https://example.com/pic.png"),
				Paragraph("after"),
			}},
			wantText:  "before\n\n\n\nafter",
			wantWords: 2,
		},
		{
			name: "whitespace only",
			doc: &Doc{Type: "doc", Content: []*Node{
				Paragraph("   "),
			}},
			wantText:  "",
			wantWords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, words := DeriveMetrics(tt.doc)
			if text != tt.wantText {
				t.Errorf("plain text = %q, want %q", text, tt.wantText)
			}
			if words != tt.wantWords {
				t.Errorf("word count = %d, want %d", words, tt.wantWords)
			}
		})
	}
}

// DeriveMetrics is pure: repeated calls on the same tree agree and the
// tree is not mutated.
func TestDeriveMetricsIsPure(t *testing.T) {
	doc := &Doc{Type: "doc", Content: []*Node{
		heading(1, "Title"),
		Paragraph("some body text"),
	}}

	text1, words1 := DeriveMetrics(doc)
	text2, words2 := DeriveMetrics(doc)

	if text1 != text2 || words1 != words2 {
		t.Errorf("repeated calls disagree: (%q, %d) vs (%q, %d)", text1, words1, text2, words2)
	}
	if len(doc.Content) != 2 {
		t.Errorf("input tree was mutated")
	}
}

func TestInsertAtClampsPosition(t *testing.T) {
	tests := []struct {
		name    string
		pos     int
		wantIdx int
	}{
		{"negative clamps to start", -5, 0},
		{"zero inserts at start", 0, 0},
		{"middle", 1, 1},
		{"past end clamps to end", 99, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Doc{Type: "doc", Content: []*Node{
				Paragraph("a"),
				Paragraph("b"),
			}}
			d.InsertAt(tt.pos, Image("x.png"))

			if len(d.Content) != 3 {
				t.Fatalf("len = %d, want 3", len(d.Content))
			}
			if d.Content[tt.wantIdx].Type != "image" {
				t.Errorf("image at index %d not found", tt.wantIdx)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &Doc{Type: "doc", Content: []*Node{Paragraph("original")}}

	clone, err := orig.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}

	clone.Content[0].Content[0].Text = "mutated"
	if orig.Content[0].Content[0].Text != "original" {
		t.Errorf("mutating the clone changed the original")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{"empty payload yields empty doc", "", false, 0},
		{"missing type defaults to doc", `{"content":[{"type":"paragraph"}]}`, false, 1},
		{"valid document", `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]}`, false, 1},
		{"invalid JSON", `{"type":`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if d.Type != "doc" {
				t.Errorf("type = %q, want doc", d.Type)
			}
			if len(d.Content) != tt.wantLen {
				t.Errorf("content len = %d, want %d", len(d.Content), tt.wantLen)
			}
		})
	}
}
