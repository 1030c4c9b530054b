package richtext

import (
	"fmt"
	"html"
	"strings"
)

// RenderHTML renders the content tree as an HTML fragment suitable for
// the export endpoint and shared-link pages.
func RenderHTML(d *Doc) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range d.Content {
		renderHTMLNode(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func renderHTMLNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case "heading":
		level := attrInt(n.Attrs, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		fmt.Fprintf(b, "<h%d>", level)
		renderHTMLInline(b, n.Content)
		fmt.Fprintf(b, "</h%d>\n", level)
	case "paragraph":
		b.WriteString("<p>")
		renderHTMLInline(b, n.Content)
		b.WriteString("</p>\n")
	case "bulletList":
		b.WriteString("<ul>\n")
		for _, item := range n.Content {
			renderHTMLListItem(b, item)
		}
		b.WriteString("</ul>\n")
	case "orderedList":
		b.WriteString("<ol>\n")
		for _, item := range n.Content {
			renderHTMLListItem(b, item)
		}
		b.WriteString("</ol>\n")
	case "taskList":
		b.WriteString("<ul data-type=\"taskList\">\n")
		for _, item := range n.Content {
			checked := attrBool(item.Attrs, "checked")
			box := "☐"
			if checked {
				box = "☑"
			}
			b.WriteString("<li>" + box + " ")
			for _, child := range item.Content {
				renderHTMLInline(b, child.Content)
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	case "codeBlock":
		lang := attrString(n.Attrs, "language")
		b.WriteString("<pre><code")
		if lang != "" {
			fmt.Fprintf(b, " class=%q", "language-"+lang)
		}
		b.WriteString(">")
		for _, child := range n.Content {
			b.WriteString(html.EscapeString(child.Text))
		}
		b.WriteString("</code></pre>\n")
	case "blockquote":
		b.WriteString("<blockquote>\n")
		for _, child := range n.Content {
			renderHTMLNode(b, child)
		}
		b.WriteString("</blockquote>\n")
	case "horizontalRule":
		b.WriteString("<hr>\n")
	case "image":
		src := attrString(n.Attrs, "src")
		if src != "" {
			fmt.Fprintf(b, "<img src=%q alt=%q>\n", src, attrString(n.Attrs, "alt"))
		}
	case "hardBreak":
		b.WriteString("<br>")
	default:
		// Unknown block types degrade to their children.
		for _, child := range n.Content {
			renderHTMLNode(b, child)
		}
	}
}

func renderHTMLListItem(b *strings.Builder, item *Node) {
	b.WriteString("<li>")
	for i, child := range item.Content {
		if child.Type == "paragraph" {
			renderHTMLInline(b, child.Content)
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		renderHTMLNode(b, child)
	}
	b.WriteString("</li>\n")
}

func renderHTMLInline(b *strings.Builder, content []*Node) {
	for _, n := range content {
		switch n.Type {
		case "text":
			b.WriteString(wrapMarksHTML(html.EscapeString(n.Text), n.Marks))
		case "hardBreak":
			b.WriteString("<br>")
		case "image":
			src := attrString(n.Attrs, "src")
			if src != "" {
				fmt.Fprintf(b, "<img src=%q>", src)
			}
		}
	}
}

func wrapMarksHTML(text string, marks []Mark) string {
	// Apply marks innermost-first so the first mark ends up outermost.
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case "bold":
			text = "<strong>" + text + "</strong>"
		case "italic":
			text = "<em>" + text + "</em>"
		case "underline":
			text = "<u>" + text + "</u>"
		case "strike":
			text = "<s>" + text + "</s>"
		case "highlight":
			text = "<mark>" + text + "</mark>"
		case "code":
			text = "<code>" + text + "</code>"
		case "link":
			href := attrString(marks[i].Attrs, "href")
			if href != "" {
				text = fmt.Sprintf("<a href=%q>%s</a>", html.EscapeString(href), text)
			}
		}
	}
	return text
}

func attrString(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func attrBool(attrs map[string]any, key string) bool {
	v, _ := attrs[key].(bool)
	return v
}

func attrInt(attrs map[string]any, key string, def int) int {
	switch v := attrs[key].(type) {
	case int:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	}
	return def
}
