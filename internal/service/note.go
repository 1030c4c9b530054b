package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/richtext"
)

// NoteService handles note creation, listing, search and version
// snapshots. Continuous editing goes through the editor session instead;
// this service covers the discrete operations around it.
type NoteService struct {
	notes    repositories.NoteRepository
	versions repositories.NoteVersionRepository
	logger   *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(notes repositories.NoteRepository, versions repositories.NoteVersionRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:    notes,
		versions: versions,
		logger:   logger,
	}
}

// CreateNote creates a note, deriving plain text and word count from the
// supplied content.
func (s *NoteService) CreateNote(ctx context.Context, userID string, req *models.CreateNoteRequest) (*models.Note, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	content := req.Content
	if content == nil {
		content = richtext.NewDoc()
	}
	plain, words := richtext.DeriveMetrics(content)

	note := &models.Note{
		UserID:     userID,
		NotebookID: req.NotebookID,
		Title:      req.Title,
		Content:    content,
		PlainText:  plain,
		WordCount:  words,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	s.logger.Info("note created",
		"id", note.ID,
		"user_id", userID,
		"notebook_id", req.NotebookID,
		"word_count", words,
	)

	return note, nil
}

// GetNote retrieves a note.
func (s *NoteService) GetNote(ctx context.Context, id, userID string) (*models.Note, error) {
	return s.notes.GetByID(ctx, id, userID)
}

// ListNotes lists note metadata for the given filters.
func (s *NoteService) ListNotes(ctx context.Context, userID string, opts *models.NoteListOptions) ([]models.Note, error) {
	return s.notes.List(ctx, userID, opts)
}

// SearchNotes finds notes whose title or text contains the query.
func (s *NoteService) SearchNotes(ctx context.Context, userID, query string) ([]models.Note, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrValidation)
	}
	return s.notes.Search(ctx, userID, query)
}

// SetPinned pins or unpins a note in list views. Pinning does not touch
// the editing session; it takes effect immediately.
func (s *NoteService) SetPinned(ctx context.Context, id, userID string, pinned bool) error {
	return s.notes.SetPinned(ctx, id, userID, pinned)
}

// SnapshotVersion appends a version row capturing the note's current
// title and content. Snapshots are never diffed or mutated.
func (s *NoteService) SnapshotVersion(ctx context.Context, noteID, userID string) (*models.NoteVersion, error) {
	note, err := s.notes.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	content, err := note.Content.Clone()
	if err != nil {
		return nil, err
	}

	v := &models.NoteVersion{
		NoteID:  note.ID,
		UserID:  userID,
		Title:   &note.Title,
		Content: content,
	}
	if err := s.versions.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("version snapshot created",
		"note_id", noteID,
		"version", v.VersionNumber,
	)

	return v, nil
}

// ListVersions returns a note's version snapshots, newest first.
func (s *NoteService) ListVersions(ctx context.Context, noteID, userID string) ([]models.NoteVersion, error) {
	if _, err := s.notes.GetByID(ctx, noteID, userID); err != nil {
		return nil, err
	}
	return s.versions.ListByNote(ctx, noteID, userID)
}

func (s *NoteService) validateCreateRequest(req *models.CreateNoteRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Length(0, config.MaxNoteTitleLength),
		),
	)
}
