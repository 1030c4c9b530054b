package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// NoteRepository defines data access operations for notes. All reads and
// writes are scoped to the owning user.
type NoteRepository interface {
	// Create creates a new note
	Create(ctx context.Context, note *models.Note) error

	// GetByID retrieves a note by ID
	GetByID(ctx context.Context, id, userID string) (*models.Note, error)

	// UpdateFields applies a partial update; only non-nil patch fields
	// change. Used by the autosave path.
	UpdateFields(ctx context.Context, id, userID string, patch *models.NotePatch) error

	// SetFavorited toggles the favorited flag
	SetFavorited(ctx context.Context, id, userID string, favorited bool) error

	// SetPinned toggles the pinned flag
	SetPinned(ctx context.Context, id, userID string, pinned bool) error

	// MoveToTrash sets the trashed flag and trashed_at timestamp
	MoveToTrash(ctx context.Context, id, userID string) error

	// RestoreFromTrash clears the trashed flag and trashed_at timestamp
	RestoreFromTrash(ctx context.Context, id, userID string) error

	// Delete permanently deletes a note
	Delete(ctx context.Context, id, userID string) error

	// List lists note metadata (no content) for the given filters,
	// pinned first, then most recently updated
	List(ctx context.Context, userID string, opts *models.NoteListOptions) ([]models.Note, error)

	// Search finds non-trashed notes whose title or plain text contains
	// the query substring
	Search(ctx context.Context, userID, query string) ([]models.Note, error)
}
