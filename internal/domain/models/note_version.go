package models

import (
	"time"

	"inkwell/internal/richtext"
)

// NoteVersion is an append-only snapshot of a note's title and content.
// Versions are never diffed or mutated; VersionNumber increases by one
// per snapshot of the same note.
type NoteVersion struct {
	ID            string        `json:"id" db:"id"`
	NoteID        string        `json:"note_id" db:"note_id"`
	UserID        string        `json:"user_id" db:"user_id"`
	Title         *string       `json:"title" db:"title"`
	Content       *richtext.Doc `json:"content" db:"content"`
	VersionNumber int           `json:"version_number" db:"version_number"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}
