package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// NotebookRepository defines data access operations for notebooks.
type NotebookRepository interface {
	Create(ctx context.Context, nb *models.Notebook) error
	GetByID(ctx context.Context, id, userID string) (*models.Notebook, error)
	Update(ctx context.Context, nb *models.Notebook) error

	// Delete removes a notebook; contained notes are unfiled (notebook_id
	// set NULL) by the schema's ON DELETE SET NULL
	Delete(ctx context.Context, id, userID string) error

	// List returns all of a user's notebooks ordered by depth then sort order
	List(ctx context.Context, userID string) ([]models.Notebook, error)
}
