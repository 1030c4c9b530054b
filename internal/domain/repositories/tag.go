package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// TagRepository defines data access operations for tags and note-tag links.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id, userID string) (*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, userID string) ([]models.Tag, error)

	// AttachToNote links a tag to a note; attaching twice is a no-op
	AttachToNote(ctx context.Context, noteID, tagID string) error

	// DetachFromNote removes a note-tag link
	DetachFromNote(ctx context.Context, noteID, tagID string) error

	// ListByNote returns the tags attached to a note
	ListByNote(ctx context.Context, noteID string) ([]models.Tag, error)
}
