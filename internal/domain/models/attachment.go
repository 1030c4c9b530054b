package models

import (
	"time"
)

// Attachment is the metadata row for an uploaded binary object. Rows are
// created on successful upload and deleted together with the storage
// object; they are never mutated otherwise.
type Attachment struct {
	ID          string    `json:"id" db:"id"`
	NoteID      string    `json:"note_id" db:"note_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileType    string    `json:"file_type" db:"file_type"` // MIME type
	FileSize    int64     `json:"file_size" db:"file_size"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	OCRText     *string   `json:"ocr_text" db:"ocr_text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
