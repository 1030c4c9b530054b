package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// TemplateRepository defines data access operations for note templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *models.Template) error

	// GetByID retrieves a template visible to the user (own or system)
	GetByID(ctx context.Context, id, userID string) (*models.Template, error)

	// Delete removes a user template; system templates cannot be deleted
	Delete(ctx context.Context, id, userID string) error

	// List returns system templates plus the user's own, system first
	List(ctx context.Context, userID string) ([]models.Template, error)
}
