package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/richtext"
)

// NoteStore is the slice of the remote document store the session
// depends on. The postgres note repository satisfies it.
type NoteStore interface {
	GetByID(ctx context.Context, id, userID string) (*models.Note, error)
	UpdateFields(ctx context.Context, id, userID string, patch *models.NotePatch) error
	SetFavorited(ctx context.Context, id, userID string, favorited bool) error
	MoveToTrash(ctx context.Context, id, userID string) error
	RestoreFromTrash(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// State is the session lifecycle state.
type State int

const (
	// StateLoading - fetching the remote snapshot
	StateLoading State = iota
	// StateBound - editing surface bound to the loaded note
	StateBound
	// StateNotFound - terminal: the note does not exist
	StateNotFound
	// StateUnmounted - terminal: the session has been torn down
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateBound:
		return "bound"
	case StateNotFound:
		return "not_found"
	case StateUnmounted:
		return "unmounted"
	}
	return "unknown"
}

// Session binds one open note to the editing surface and the autosave
// scheduler. It exclusively owns its pending-write buffer and timer; the
// attachment pipeline mutates content only through the same edit path as
// the user, so everything funnels into the one buffer.
type Session struct {
	store  NoteStore
	buf    *Buffer
	sched  *Autosave
	notify Notifier
	logger *slog.Logger
	userID string

	// onListChanged refreshes any list view showing titles/flags. Fired
	// after title-blur flushes and discrete actions, never per keystroke.
	onListChanged func()

	mu    sync.Mutex
	state State
	note  *models.Note
}

// SessionConfig carries the collaborators a session needs.
type SessionConfig struct {
	Store         NoteStore
	Clock         Clock
	Delay         time.Duration
	Notifier      Notifier
	Logger        *slog.Logger
	OnListChanged func()
}

// NewSession creates a session for one user. Open must be called before
// any edit operation.
func NewSession(userID string, cfg SessionConfig) *Session {
	s := &Session{
		store:         cfg.Store,
		buf:           NewBuffer(),
		notify:        cfg.Notifier,
		logger:        cfg.Logger,
		userID:        userID,
		onListChanged: cfg.OnListChanged,
		state:         StateLoading,
	}
	if s.onListChanged == nil {
		s.onListChanged = func() {}
	}
	s.sched = NewAutosave(s.buf, cfg.Clock, cfg.Delay, s.persist, cfg.Notifier, cfg.Logger)
	return s
}

// persist is the scheduler's save function: one partial update against
// the currently bound note.
func (s *Session) persist(ctx context.Context, patch *models.NotePatch) error {
	s.mu.Lock()
	note := s.note
	s.mu.Unlock()
	if note == nil {
		return fmt.Errorf("no note bound")
	}
	return s.store.UpdateFields(ctx, note.ID, s.userID, patch)
}

// Open fetches the remote snapshot and binds it. A missing note moves
// the session to the terminal NotFound state.
func (s *Session) Open(ctx context.Context, noteID string) error {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	note, err := s.store.GetByID(ctx, noteID, s.userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.mu.Lock()
			s.state = StateNotFound
			s.note = nil
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	s.note = note
	s.state = StateBound
	s.mu.Unlock()

	s.logger.Debug("session bound", "note_id", note.ID, "word_count", note.WordCount)
	return nil
}

// Switch flushes the outgoing note's buffered patch, then loads the new
// one. The flush is synchronous with respect to the switch: the write
// for the old note is issued before the new load begins.
func (s *Session) Switch(ctx context.Context, noteID string) error {
	s.mu.Lock()
	current := s.note
	s.mu.Unlock()

	if current != nil && current.ID == noteID {
		return nil
	}
	s.sched.Flush(ctx)
	return s.Open(ctx, noteID)
}

// Close flushes any buffered patch and tears the session down. The flush
// uses a background context so the write can outlive the caller's
// teardown (fire-and-forget, matching the unmount path).
func (s *Session) Close() {
	s.sched.Flush(context.Background())
	s.mu.Lock()
	s.state = StateUnmounted
	s.mu.Unlock()
}

// OnContentChanged is invoked by the editing surface after every content
// edit. It recomputes derived metrics, updates the local snapshot, and
// schedules a debounced save carrying content, plain text and word count
// together.
func (s *Session) OnContentChanged(tree *richtext.Doc) {
	plain, words := richtext.DeriveMetrics(tree)

	s.mu.Lock()
	if s.state != StateBound {
		s.mu.Unlock()
		return
	}
	s.note.Content = tree
	s.note.PlainText = plain
	s.note.WordCount = words
	s.mu.Unlock()

	s.sched.Schedule(&models.NotePatch{
		Content:   tree,
		PlainText: &plain,
		WordCount: &words,
	})
}

// OnTitleChanged is invoked per title keystroke.
func (s *Session) OnTitleChanged(title string) {
	s.mu.Lock()
	if s.state != StateBound {
		s.mu.Unlock()
		return
	}
	s.note.Title = title
	s.mu.Unlock()

	s.sched.Schedule(&models.NotePatch{Title: &title})
}

// OnTitleBlur flushes immediately when the user leaves the title field -
// a renamed note should not wait out the debounce window - and refreshes
// list views showing the title.
func (s *Session) OnTitleBlur(ctx context.Context) {
	s.sched.Flush(ctx)
	s.onListChanged()
}

// OnFilesDropped forwards drop/paste payloads to the attachment
// pipeline. Part of the surface-facing interface alongside
// OnContentChanged; the Uploader does the work.
func (s *Session) OnFilesDropped(ctx context.Context, u *Uploader, files []IncomingFile, position int) []UploadResult {
	return u.HandleFiles(ctx, s, files, position)
}

// InsertImage inserts an image node at the given block position and
// persists it through the normal autosave path. Image insertion is just
// another content edit.
func (s *Session) InsertImage(url string, position int) {
	s.mu.Lock()
	if s.state != StateBound {
		s.mu.Unlock()
		return
	}
	doc := s.note.Content
	if doc == nil {
		doc = richtext.NewDoc()
	}
	doc.InsertAt(position, richtext.Image(url))
	s.mu.Unlock()

	s.OnContentChanged(doc)
}

// ToggleFavorite is an immediate, non-debounced write; discrete user
// actions don't coalesce with typing.
func (s *Session) ToggleFavorite(ctx context.Context) error {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return fmt.Errorf("no note bound")
	}
	id := s.note.ID
	next := !s.note.Favorited
	s.mu.Unlock()

	if err := s.store.SetFavorited(ctx, id, s.userID, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.note.Favorited = next
	s.mu.Unlock()
	s.onListChanged()
	return nil
}

// MoveToTrash sets the trashed flag and timestamp immediately.
func (s *Session) MoveToTrash(ctx context.Context) error {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return fmt.Errorf("no note bound")
	}
	id := s.note.ID
	s.mu.Unlock()

	if err := s.store.MoveToTrash(ctx, id, s.userID); err != nil {
		return err
	}
	now := time.Now()
	s.mu.Lock()
	s.note.Trashed = true
	s.note.TrashedAt = &now
	s.mu.Unlock()
	s.onListChanged()
	s.notify.Success("Moved to trash")
	return nil
}

// RestoreFromTrash clears the trashed flag and timestamp immediately.
func (s *Session) RestoreFromTrash(ctx context.Context) error {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return fmt.Errorf("no note bound")
	}
	id := s.note.ID
	s.mu.Unlock()

	if err := s.store.RestoreFromTrash(ctx, id, s.userID); err != nil {
		return err
	}
	s.mu.Lock()
	s.note.Trashed = false
	s.note.TrashedAt = nil
	s.mu.Unlock()
	s.onListChanged()
	s.notify.Success("Restored from trash")
	return nil
}

// DeletePermanently deletes the note and unbinds the session. Only a
// trashed note can be deleted; everything else must pass through the
// trash first.
func (s *Session) DeletePermanently(ctx context.Context) error {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return fmt.Errorf("no note bound")
	}
	if !s.note.Trashed {
		s.mu.Unlock()
		return fmt.Errorf("%w: note is not in the trash", domain.ErrValidation)
	}
	id := s.note.ID
	s.mu.Unlock()

	// Drop any buffered edits for a note that is about to disappear.
	s.sched.Stop()
	s.buf.TakeAndClear()

	if err := s.store.Delete(ctx, id, s.userID); err != nil {
		return err
	}
	s.mu.Lock()
	s.note = nil
	s.state = StateNotFound
	s.mu.Unlock()
	s.onListChanged()
	s.notify.Success("Permanently deleted")
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Note returns the bound note snapshot, or nil.
func (s *Session) Note() *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

// UserID returns the owning user.
func (s *Session) UserID() string {
	return s.userID
}

// Saving reports whether a remote write is in flight.
func (s *Session) Saving() bool {
	return s.sched.Saving()
}

// WordCount returns the current derived word count for display.
func (s *Session) WordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.note == nil {
		return 0
	}
	return s.note.WordCount
}
