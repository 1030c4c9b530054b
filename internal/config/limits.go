package config

import "time"

const (
	// AutosaveDelay is the trailing-edge debounce window for continuous
	// edits. Each new edit resets the window; the buffered patch is sent
	// once no edit has arrived for this long.
	AutosaveDelay = 1500 * time.Millisecond

	// MaxNoteTitleLength is the maximum length for note titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNoteTitleLength = 255

	// MaxNotebookNameLength is the maximum length for notebook names.
	MaxNotebookNameLength = 255

	// MaxTagNameLength keeps tag names short enough to render inline.
	MaxTagNameLength = 64

	// MaxNotebookDepth bounds notebook nesting. Deeper hierarchies are
	// an anti-pattern and break the sidebar layout.
	MaxNotebookDepth = 5

	// MaxUploadSize is the maximum accepted attachment payload (25 MB).
	MaxUploadSize = 25 << 20

	// MaxRequestBodySize bounds JSON request bodies (10 MB); large
	// content trees stay well under this.
	MaxRequestBodySize = 10 << 20
)
