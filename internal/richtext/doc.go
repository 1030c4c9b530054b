package richtext

import (
	"encoding/json"
	"fmt"
)

// Doc is the root of a rich-text content tree. The schema mirrors the
// TipTap/ProseMirror JSON document format so content round-trips between
// the editing surface, the database (JSONB) and the export renderers.
type Doc struct {
	Type    string  `json:"type"`
	Content []*Node `json:"content,omitempty"`
}

// Node is a single node in the content tree. Block nodes (paragraph,
// heading, lists, ...) carry children in Content; text nodes carry Text
// plus optional Marks.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Content []*Node        `json:"content,omitempty"`
}

// Mark is an inline formatting annotation on a text node (bold, italic,
// code, strike, underline, highlight, link).
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewDoc returns an empty document.
func NewDoc() *Doc {
	return &Doc{Type: "doc"}
}

// Paragraph builds a paragraph node containing a single text node.
// An empty string yields an empty paragraph.
func Paragraph(text string) *Node {
	p := &Node{Type: "paragraph"}
	if text != "" {
		p.Content = []*Node{{Type: "text", Text: text}}
	}
	return p
}

// Image builds an image node referencing an uploaded object by URL.
func Image(src string) *Node {
	return &Node{Type: "image", Attrs: map[string]any{"src": src}}
}

// InsertAt inserts a block node at the given top-level position.
// Positions outside [0, len] are clamped, so a stale cursor position
// never fails the edit.
func (d *Doc) InsertAt(pos int, n *Node) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.Content) {
		pos = len(d.Content)
	}
	d.Content = append(d.Content[:pos], append([]*Node{n}, d.Content[pos:]...)...)
}

// Append adds a block node at the end of the document.
func (d *Doc) Append(n *Node) {
	d.Content = append(d.Content, n)
}

// Clone returns a deep copy via JSON round-trip. Used when snapshotting
// content for versions and templates so later edits don't alias.
func (d *Doc) Clone() (*Doc, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out Doc
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &out, nil
}

// Parse decodes a JSON content tree. A nil or empty payload yields an
// empty document rather than an error.
func Parse(raw []byte) (*Doc, error) {
	if len(raw) == 0 {
		return NewDoc(), nil
	}
	var d Doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if d.Type == "" {
		d.Type = "doc"
	}
	return &d, nil
}
