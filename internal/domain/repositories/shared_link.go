package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// SharedLinkRepository defines data access operations for share links.
type SharedLinkRepository interface {
	Create(ctx context.Context, link *models.SharedLink) error

	// GetActiveByToken retrieves an active link by its opaque token
	GetActiveByToken(ctx context.Context, token string) (*models.SharedLink, error)

	// IncrementViewCount bumps the view counter
	IncrementViewCount(ctx context.Context, id string) error

	// Deactivate revokes a link without deleting its row
	Deactivate(ctx context.Context, id, userID string) error

	// ListByNote returns a note's share links, newest first
	ListByNote(ctx context.Context, noteID, userID string) ([]models.SharedLink, error)
}
