package models

import (
	"time"
)

// SharedLink maps an opaque token to a read-only view of one note,
// optionally gated by a password hash and an expiry timestamp.
type SharedLink struct {
	ID           string     `json:"id" db:"id"`
	NoteID       string     `json:"note_id" db:"note_id"`
	UserID       string     `json:"user_id" db:"user_id"`
	Token        string     `json:"token" db:"token"`
	PasswordHash *string    `json:"-" db:"password_hash"` // bcrypt; never serialized
	ExpiresAt    *time.Time `json:"expires_at" db:"expires_at"`
	Active       bool       `json:"is_active" db:"is_active"`
	ViewCount    int        `json:"view_count" db:"view_count"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// CreateShareRequest carries the fields for issuing a share link.
type CreateShareRequest struct {
	NoteID    string     `json:"note_id"`
	Password  *string    `json:"password,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SharedNote is the read-only payload returned when a share token is
// redeemed.
type SharedNote struct {
	Title   string `json:"title"`
	Content any    `json:"content"`
}
