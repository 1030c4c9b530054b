package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// NoteVersionRepository defines data access operations for note version
// snapshots. Versions are append-only.
type NoteVersionRepository interface {
	// Create inserts a snapshot, assigning the next version number for
	// the note
	Create(ctx context.Context, v *models.NoteVersion) error

	// ListByNote returns a note's versions, newest first
	ListByNote(ctx context.Context, noteID, userID string) ([]models.NoteVersion, error)
}
