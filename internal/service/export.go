package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/richtext"
)

// ExportFormat selects an export renderer.
type ExportFormat string

const (
	ExportHTML     ExportFormat = "html"
	ExportMarkdown ExportFormat = "markdown"
)

// Export is a rendered note ready to be written to the response.
type Export struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportService renders notes to portable formats.
type ExportService struct {
	notes  repositories.NoteRepository
	logger *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(notes repositories.NoteRepository, logger *slog.Logger) *ExportService {
	return &ExportService{
		notes:  notes,
		logger: logger,
	}
}

// ExportNote renders a note in the requested format.
func (s *ExportService) ExportNote(ctx context.Context, noteID, userID string, format ExportFormat) (*Export, error) {
	note, err := s.notes.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	title := note.Title
	if title == "" {
		title = "Untitled"
	}

	var out *Export
	switch format {
	case ExportHTML:
		out = &Export{
			FileName:    exportFileName(title) + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        []byte(renderHTMLPage(title, note.Content)),
		}
	case ExportMarkdown:
		body := "# " + title + "\n\n" + richtext.RenderMarkdown(note.Content) + "\n"
		out = &Export{
			FileName:    exportFileName(title) + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Body:        []byte(body),
		}
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}

	s.logger.Info("note exported", "note_id", noteID, "format", format)
	return out, nil
}

// renderHTMLPage wraps the rendered fragment in a minimal standalone
// document.
func renderHTMLPage(title string, doc *richtext.Doc) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	b.WriteString(richtext.RenderHTML(doc))
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// exportFileName derives a safe download name from a note title.
func exportFileName(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "note"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
