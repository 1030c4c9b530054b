package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// AttachmentRepository defines data access operations for attachment
// metadata rows.
type AttachmentRepository interface {
	Create(ctx context.Context, att *models.Attachment) error
	GetByID(ctx context.Context, id, userID string) (*models.Attachment, error)
	Delete(ctx context.Context, id, userID string) error

	// ListByNote returns a note's attachments, newest first
	ListByNote(ctx context.Context, noteID, userID string) ([]models.Attachment, error)
}
