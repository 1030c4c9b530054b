package models

import (
	"time"

	"inkwell/internal/richtext"
)

// Note is one document: structured content plus derived and bookkeeping
// metadata. PlainText and WordCount are always derived from Content by
// richtext.DeriveMetrics; they are never set independently of a content
// update except when only the title changes.
type Note struct {
	ID         string        `json:"id" db:"id"`
	UserID     string        `json:"user_id" db:"user_id"`
	NotebookID *string       `json:"notebook_id" db:"notebook_id"` // NULL = not filed in a notebook
	Title      string        `json:"title" db:"title"`
	Content    *richtext.Doc `json:"content" db:"content"` // JSONB content tree
	PlainText  string        `json:"plain_text" db:"plain_text"`
	WordCount  int           `json:"word_count" db:"word_count"`
	Favorited  bool          `json:"is_favorited" db:"is_favorited"`
	Pinned     bool          `json:"is_pinned" db:"is_pinned"`
	Trashed    bool          `json:"is_trashed" db:"is_trashed"`
	TrashedAt  *time.Time    `json:"trashed_at" db:"trashed_at"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// NotePatch is a partial projection of a note's continuously edited
// fields. A nil field means "leave unchanged". One outstanding patch
// exists per open note; successive edits merge into it field-wise with
// last-write-wins semantics.
type NotePatch struct {
	Title     *string        `json:"title,omitempty"`
	Content   *richtext.Doc  `json:"content,omitempty"`
	PlainText *string        `json:"plain_text,omitempty"`
	WordCount *int           `json:"word_count,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p *NotePatch) IsEmpty() bool {
	return p == nil ||
		(p.Title == nil && p.Content == nil && p.PlainText == nil && p.WordCount == nil)
}

// CreateNoteRequest carries the fields for creating a note.
type CreateNoteRequest struct {
	NotebookID *string       `json:"notebook_id,omitempty"`
	Title      string        `json:"title"`
	Content    *richtext.Doc `json:"content,omitempty"`
}

// NoteListOptions filters note listings.
type NoteListOptions struct {
	NotebookID *string // only notes in this notebook
	TagID      *string // only notes carrying this tag
	Favorited  bool    // only favorited notes
	Trashed    bool    // trash view; false excludes trashed notes
}
