package richtext

import (
	"strings"
)

// blockSeparator matches the editing surface's plain-text extraction:
// top-level blocks are joined with a blank line.
const blockSeparator = "\n\n"

// DeriveMetrics flattens the content tree into plain text and counts
// words. It is pure: the same tree always yields the same result.
// Empty or whitespace-only content yields ("", 0).
func DeriveMetrics(d *Doc) (plainText string, wordCount int) {
	if d == nil || len(d.Content) == 0 {
		return "", 0
	}

	var blocks []string
	for _, n := range d.Content {
		var b strings.Builder
		flattenNode(&b, n)
		blocks = append(blocks, b.String())
	}

	plainText = strings.TrimSpace(strings.Join(blocks, blockSeparator))
	if plainText == "" {
		return "", 0
	}
	return plainText, len(strings.Fields(plainText))
}

// flattenNode appends the text content of a node and its children in
// document order.
func flattenNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
	case "hardBreak":
		b.WriteString("\n")
	default:
		for i, child := range n.Content {
			// Nested blocks (list items, blockquote paragraphs) get a
			// line break between them so words never run together.
			if i > 0 && isBlock(child) {
				b.WriteString("\n")
			}
			flattenNode(b, child)
		}
	}
}

func isBlock(n *Node) bool {
	switch n.Type {
	case "text", "hardBreak", "image":
		return false
	}
	return true
}
