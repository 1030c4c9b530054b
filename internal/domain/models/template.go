package models

import (
	"time"

	"inkwell/internal/richtext"
)

// Template is static content cloned into a new note on instantiation.
// System templates (UserID nil) ship with the application; user templates
// belong to one account.
type Template struct {
	ID        string        `json:"id" db:"id"`
	UserID    *string       `json:"user_id" db:"user_id"` // NULL = system template
	Name      string        `json:"name" db:"name"`
	Content   *richtext.Doc `json:"content" db:"content"`
	Category  *string       `json:"category" db:"category"`
	System    bool          `json:"is_system" db:"is_system"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateTemplateRequest carries the fields for creating a user template.
type CreateTemplateRequest struct {
	Name     string        `json:"name"`
	Content  *richtext.Doc `json:"content,omitempty"`
	Category *string       `json:"category,omitempty"`
}
