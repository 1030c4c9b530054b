package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/richtext"
)

//go:embed builtin_templates.yaml
var builtinTemplatesYAML []byte

// builtinTemplateFile is the shape of builtin_templates.yaml.
type builtinTemplateFile struct {
	Templates []builtinTemplate `yaml:"templates"`
}

type builtinTemplate struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Category string          `yaml:"category"`
	Blocks   []templateBlock `yaml:"blocks"`
}

type templateBlock struct {
	Type  string   `yaml:"type"`
	Level int      `yaml:"level"`
	Text  string   `yaml:"text"`
	Items []string `yaml:"items"`
}

var (
	builtinOnce sync.Once
	builtins    []models.Template
	builtinErr  error
)

// loadBuiltins parses the embedded registry once per process.
func loadBuiltins() ([]models.Template, error) {
	builtinOnce.Do(func() {
		var file builtinTemplateFile
		if err := yaml.Unmarshal(builtinTemplatesYAML, &file); err != nil {
			builtinErr = fmt.Errorf("parse builtin templates: %w", err)
			return
		}
		for _, bt := range file.Templates {
			doc := richtext.NewDoc()
			for _, block := range bt.Blocks {
				doc.Append(buildBlock(block))
			}
			category := bt.Category
			builtins = append(builtins, models.Template{
				ID:       bt.ID,
				Name:     bt.Name,
				Category: &category,
				Content:  doc,
				System:   true,
			})
		}
	})
	return builtins, builtinErr
}

func buildBlock(block templateBlock) *richtext.Node {
	switch block.Type {
	case "heading":
		level := block.Level
		if level == 0 {
			level = 1
		}
		n := &richtext.Node{
			Type:  "heading",
			Attrs: map[string]any{"level": level},
		}
		if block.Text != "" {
			n.Content = []*richtext.Node{{Type: "text", Text: block.Text}}
		}
		return n
	case "bulletList", "orderedList":
		n := &richtext.Node{Type: block.Type}
		for _, item := range block.Items {
			n.Content = append(n.Content, &richtext.Node{
				Type:    "listItem",
				Content: []*richtext.Node{richtext.Paragraph(item)},
			})
		}
		return n
	case "taskList":
		n := &richtext.Node{Type: "taskList"}
		for _, item := range block.Items {
			n.Content = append(n.Content, &richtext.Node{
				Type:    "taskItem",
				Attrs:   map[string]any{"checked": false},
				Content: []*richtext.Node{richtext.Paragraph(item)},
			})
		}
		return n
	default:
		return richtext.Paragraph(block.Text)
	}
}

// TemplateService serves built-in templates from the embedded registry
// and user templates from the database, and instantiates either into a
// fresh note.
type TemplateService struct {
	templates repositories.TemplateRepository
	notes     *NoteService
	logger    *slog.Logger
}

// NewTemplateService creates a new template service. It fails if the
// embedded registry does not parse, so a bad registry is caught at
// startup rather than on first use.
func NewTemplateService(templates repositories.TemplateRepository, notes *NoteService, logger *slog.Logger) (*TemplateService, error) {
	if _, err := loadBuiltins(); err != nil {
		return nil, err
	}
	return &TemplateService{
		templates: templates,
		notes:     notes,
		logger:    logger,
	}, nil
}

// ListTemplates returns built-in templates followed by the user's own.
func (s *TemplateService) ListTemplates(ctx context.Context, userID string) ([]models.Template, error) {
	system, err := loadBuiltins()
	if err != nil {
		return nil, err
	}

	own, err := s.templates.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Template, 0, len(system)+len(own))
	out = append(out, system...)
	out = append(out, own...)
	return out, nil
}

// GetTemplate retrieves a built-in or user template.
func (s *TemplateService) GetTemplate(ctx context.Context, id, userID string) (*models.Template, error) {
	system, err := loadBuiltins()
	if err != nil {
		return nil, err
	}
	for i := range system {
		if system[i].ID == id {
			return &system[i], nil
		}
	}
	return s.templates.GetByID(ctx, id, userID)
}

// CreateTemplate saves a user template.
func (s *TemplateService) CreateTemplate(ctx context.Context, userID string, req *models.CreateTemplateRequest) (*models.Template, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxNoteTitleLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	content := req.Content
	if content == nil {
		content = richtext.NewDoc()
	}

	tpl := &models.Template{
		UserID:   &userID,
		Name:     req.Name,
		Content:  content,
		Category: req.Category,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}

	s.logger.Info("template created", "id", tpl.ID, "name", tpl.Name)
	return tpl, nil
}

// DeleteTemplate removes a user template. Built-ins cannot be deleted.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id, userID string) error {
	system, _ := loadBuiltins()
	for i := range system {
		if system[i].ID == id {
			return fmt.Errorf("%w: built-in templates cannot be deleted", domain.ErrForbidden)
		}
	}
	return s.templates.Delete(ctx, id, userID)
}

// InstantiateTemplate creates a new note from a template. The template
// content is deep-copied so the note and the template never alias.
func (s *TemplateService) InstantiateTemplate(ctx context.Context, id, userID string, notebookID *string) (*models.Note, error) {
	tpl, err := s.GetTemplate(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	content, err := tpl.Content.Clone()
	if err != nil {
		return nil, err
	}

	note, err := s.notes.CreateNote(ctx, userID, &models.CreateNoteRequest{
		Title:      tpl.Name,
		Content:    content,
		NotebookID: notebookID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template instantiated", "template_id", id, "note_id", note.ID)
	return note, nil
}
