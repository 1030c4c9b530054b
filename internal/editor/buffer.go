package editor

import (
	"sync"

	"inkwell/internal/domain/models"
)

// Buffer coalesces rapid successive field updates into one outstanding
// patch. Merging is field-level last-write-wins; TakeAndClear hands the
// accumulated patch off exactly once, whether the caller is the debounce
// expiry or a forced flush.
type Buffer struct {
	mu      sync.Mutex
	pending *models.NotePatch
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Merge shallow-merges patch fields into the outstanding patch, creating
// one if absent. Later fields overwrite earlier ones of the same name.
func (b *Buffer) Merge(patch *models.NotePatch) {
	if patch.IsEmpty() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		b.pending = &models.NotePatch{}
	}
	if patch.Title != nil {
		b.pending.Title = patch.Title
	}
	if patch.Content != nil {
		b.pending.Content = patch.Content
	}
	if patch.PlainText != nil {
		b.pending.PlainText = patch.PlainText
	}
	if patch.WordCount != nil {
		b.pending.WordCount = patch.WordCount
	}
}

// TakeAndClear atomically returns the outstanding patch and clears it.
// Returns nil if nothing is pending.
func (b *Buffer) TakeAndClear() *models.NotePatch {
	b.mu.Lock()
	defer b.mu.Unlock()

	patch := b.pending
	b.pending = nil
	return patch
}

// HasPending reports whether a patch is buffered.
func (b *Buffer) HasPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}
