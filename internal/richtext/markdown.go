package richtext

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the content tree as Markdown for export.
func RenderMarkdown(d *Doc) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range d.Content {
		renderMarkdownNode(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func renderMarkdownNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case "heading":
		level := attrInt(n.Attrs, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		renderMarkdownInline(b, n.Content)
		b.WriteString("\n\n")
	case "paragraph":
		renderMarkdownInline(b, n.Content)
		b.WriteString("\n\n")
	case "bulletList":
		for _, item := range n.Content {
			b.WriteString("- ")
			renderMarkdownListItem(b, item)
		}
		b.WriteString("\n")
	case "orderedList":
		for i, item := range n.Content {
			fmt.Fprintf(b, "%d. ", i+1)
			renderMarkdownListItem(b, item)
		}
		b.WriteString("\n")
	case "taskList":
		for _, item := range n.Content {
			box := "[ ]"
			if attrBool(item.Attrs, "checked") {
				box = "[x]"
			}
			b.WriteString("- " + box + " ")
			renderMarkdownListItem(b, item)
		}
		b.WriteString("\n")
	case "codeBlock":
		lang := attrString(n.Attrs, "language")
		b.WriteString("```" + lang + "\n")
		for _, child := range n.Content {
			b.WriteString(child.Text)
		}
		b.WriteString("\n```\n\n")
	case "blockquote":
		for _, child := range n.Content {
			b.WriteString("> ")
			renderMarkdownNode(b, child)
		}
	case "horizontalRule":
		b.WriteString("---\n\n")
	case "image":
		src := attrString(n.Attrs, "src")
		if src != "" {
			fmt.Fprintf(b, "![%s](%s)\n\n", attrString(n.Attrs, "alt"), src)
		}
	case "hardBreak":
		b.WriteString("  \n")
	default:
		for _, child := range n.Content {
			renderMarkdownNode(b, child)
		}
	}
}

func renderMarkdownListItem(b *strings.Builder, item *Node) {
	for _, child := range item.Content {
		if child.Type == "paragraph" {
			renderMarkdownInline(b, child.Content)
			b.WriteString("\n")
		} else {
			renderMarkdownNode(b, child)
		}
	}
}

func renderMarkdownInline(b *strings.Builder, content []*Node) {
	for _, n := range content {
		switch n.Type {
		case "text":
			b.WriteString(wrapMarksMarkdown(n.Text, n.Marks))
		case "hardBreak":
			b.WriteString("  \n")
		case "image":
			src := attrString(n.Attrs, "src")
			if src != "" {
				fmt.Fprintf(b, "![](%s)", src)
			}
		}
	}
}

func wrapMarksMarkdown(text string, marks []Mark) string {
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case "bold":
			text = "**" + text + "**"
		case "italic":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "link":
			href := attrString(marks[i].Attrs, "href")
			if href != "" {
				text = "[" + text + "](" + href + ")"
			}
		}
	}
	return text
}
