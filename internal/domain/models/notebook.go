package models

import (
	"time"
)

// Notebook is a container for notes. Notebooks nest one level at a time
// through ParentID; Depth is maintained on write for cheap tree rendering.
type Notebook struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = top level
	Name      string    `json:"name" db:"name"`
	Icon      *string   `json:"icon" db:"icon"`
	Color     *string   `json:"color" db:"color"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	Depth     int       `json:"depth" db:"depth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateNotebookRequest carries the fields for creating a notebook.
type CreateNotebookRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Icon     *string `json:"icon,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// UpdateNotebookRequest carries partial notebook updates.
type UpdateNotebookRequest struct {
	ParentID  *string `json:"parent_id,omitempty"`
	Name      *string `json:"name,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Color     *string `json:"color,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}
