package service

import (
	"testing"

	"inkwell/internal/richtext"
)

func TestLoadBuiltins(t *testing.T) {
	builtins, err := loadBuiltins()
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}
	if len(builtins) == 0 {
		t.Fatal("no builtin templates loaded")
	}

	seen := make(map[string]bool)
	for _, tpl := range builtins {
		if tpl.ID == "" || tpl.Name == "" {
			t.Errorf("builtin with missing id or name: %+v", tpl)
		}
		if seen[tpl.ID] {
			t.Errorf("duplicate builtin id %q", tpl.ID)
		}
		seen[tpl.ID] = true

		if !tpl.System {
			t.Errorf("builtin %q not marked as system", tpl.ID)
		}
		if tpl.UserID != nil {
			t.Errorf("builtin %q has an owner", tpl.ID)
		}
		if tpl.Content == nil || len(tpl.Content.Content) == 0 {
			t.Errorf("builtin %q has empty content", tpl.ID)
		}
	}
}

func TestBuildBlock(t *testing.T) {
	tests := []struct {
		name     string
		block    templateBlock
		wantType string
		check    func(t *testing.T, n *richtext.Node)
	}{
		{
			name:     "heading carries level",
			block:    templateBlock{Type: "heading", Level: 2, Text: "Section"},
			wantType: "heading",
			check: func(t *testing.T, n *richtext.Node) {
				if n.Attrs["level"] != 2 {
					t.Errorf("level = %v, want 2", n.Attrs["level"])
				}
			},
		},
		{
			name:     "heading level defaults to 1",
			block:    templateBlock{Type: "heading", Text: "Top"},
			wantType: "heading",
			check: func(t *testing.T, n *richtext.Node) {
				if n.Attrs["level"] != 1 {
					t.Errorf("level = %v, want 1", n.Attrs["level"])
				}
			},
		},
		{
			name:     "task items start unchecked",
			block:    templateBlock{Type: "taskList", Items: []string{"a", "b"}},
			wantType: "taskList",
			check: func(t *testing.T, n *richtext.Node) {
				if len(n.Content) != 2 {
					t.Fatalf("items = %d, want 2", len(n.Content))
				}
				for _, item := range n.Content {
					if item.Attrs["checked"] != false {
						t.Errorf("task item starts checked")
					}
				}
			},
		},
		{
			name:     "bullet list items wrap paragraphs",
			block:    templateBlock{Type: "bulletList", Items: []string{"x"}},
			wantType: "bulletList",
			check: func(t *testing.T, n *richtext.Node) {
				if n.Content[0].Type != "listItem" {
					t.Errorf("child type = %q, want listItem", n.Content[0].Type)
				}
			},
		},
		{
			name:     "unknown type degrades to paragraph",
			block:    templateBlock{Type: "mystery", Text: "hello"},
			wantType: "paragraph",
			check:    func(t *testing.T, n *richtext.Node) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := buildBlock(tt.block)
			if n.Type != tt.wantType {
				t.Fatalf("type = %q, want %q", n.Type, tt.wantType)
			}
			tt.check(t, n)
		})
	}
}

// Instantiation must deep-copy: editing the note later never mutates the
// registry's template content.
func TestBuiltinContentClonesIndependently(t *testing.T) {
	builtins, err := loadBuiltins()
	if err != nil {
		t.Fatalf("load builtins: %v", err)
	}

	tpl := builtins[0]
	clone, err := tpl.Content.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}

	clone.Append(richtext.Paragraph("user edit"))
	if len(tpl.Content.Content) == len(clone.Content) {
		t.Error("editing the clone grew the template content")
	}
}
