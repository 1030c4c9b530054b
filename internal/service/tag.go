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
)

// defaultTagColor is used when a tag is created without one.
const defaultTagColor = "#6b7280"

// TagService handles tag CRUD and note-tag links.
type TagService struct {
	tags   repositories.TagRepository
	notes  repositories.NoteRepository
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(tags repositories.TagRepository, notes repositories.NoteRepository, logger *slog.Logger) *TagService {
	return &TagService{
		tags:   tags,
		notes:  notes,
		logger: logger,
	}
}

// CreateTag creates a tag.
func (s *TagService) CreateTag(ctx context.Context, userID string, req *models.CreateTagRequest) (*models.Tag, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxTagNameLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	color := defaultTagColor
	if req.Color != nil {
		color = *req.Color
	}

	tag := &models.Tag{
		UserID: userID,
		Name:   req.Name,
		Color:  color,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// UpdateTag applies a partial update.
func (s *TagService) UpdateTag(ctx context.Context, id, userID string, req *models.UpdateTagRequest) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if len(*req.Name) == 0 || len(*req.Name) > config.MaxTagNameLength {
			return nil, fmt.Errorf("%w: invalid tag name", domain.ErrValidation)
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes a tag and its note links.
func (s *TagService) DeleteTag(ctx context.Context, id, userID string) error {
	if err := s.tags.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "id", id)
	return nil
}

// ListTags returns all of the user's tags.
func (s *TagService) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.tags.List(ctx, userID)
}

// AttachTag links a tag to a note after verifying both belong to the
// user.
func (s *TagService) AttachTag(ctx context.Context, noteID, tagID, userID string) error {
	if _, err := s.notes.GetByID(ctx, noteID, userID); err != nil {
		return err
	}
	if _, err := s.tags.GetByID(ctx, tagID, userID); err != nil {
		return err
	}
	return s.tags.AttachToNote(ctx, noteID, tagID)
}

// DetachTag removes a note-tag link.
func (s *TagService) DetachTag(ctx context.Context, noteID, tagID, userID string) error {
	if _, err := s.notes.GetByID(ctx, noteID, userID); err != nil {
		return err
	}
	return s.tags.DetachFromNote(ctx, noteID, tagID)
}

// ListNoteTags returns the tags attached to a note.
func (s *TagService) ListNoteTags(ctx context.Context, noteID, userID string) ([]models.Tag, error) {
	if _, err := s.notes.GetByID(ctx, noteID, userID); err != nil {
		return nil, err
	}
	return s.tags.ListByNote(ctx, noteID)
}
