package editor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/richtext"
)

// fakeClock drives the debounce with virtual time. Advance fires due
// timers synchronously, so tests never sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves virtual time forward and fires every timer whose
// deadline has passed, in creation order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// fakeStore is an in-memory NoteStore recording every operation in
// order, so tests can assert write ordering across switches and flushes.
type fakeStore struct {
	mu      sync.Mutex
	notes   map[string]*models.Note
	ops     []string
	patches []*models.NotePatch

	failUpdates bool
	updateHook  func() // runs inside UpdateFields before recording
}

func newFakeStore(notes ...*models.Note) *fakeStore {
	s := &fakeStore{notes: make(map[string]*models.Note)}
	for _, n := range notes {
		s.notes[n.ID] = n
	}
	return s
}

func (s *fakeStore) record(op string) {
	s.ops = append(s.ops, op)
}

func (s *fakeStore) GetByID(ctx context.Context, id, userID string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get:" + id)
	n, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	copied := *n
	return &copied, nil
}

func (s *fakeStore) UpdateFields(ctx context.Context, id, userID string, patch *models.NotePatch) error {
	if s.updateHook != nil {
		s.updateHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update:" + id)
	if s.failUpdates {
		return fmt.Errorf("update %s: connection reset", id)
	}
	n, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	s.patches = append(s.patches, patch)
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = patch.Content
	}
	if patch.PlainText != nil {
		n.PlainText = *patch.PlainText
	}
	if patch.WordCount != nil {
		n.WordCount = *patch.WordCount
	}
	return nil
}

func (s *fakeStore) SetFavorited(ctx context.Context, id, userID string, favorited bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(fmt.Sprintf("favorite:%s:%t", id, favorited))
	n, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	n.Favorited = favorited
	return nil
}

func (s *fakeStore) MoveToTrash(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("trash:" + id)
	n, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	n.Trashed = true
	return nil
}

func (s *fakeStore) RestoreFromTrash(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("restore:" + id)
	n, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	n.Trashed = false
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete:" + id)
	if _, ok := s.notes[id]; !ok {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeStore) opLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *fakeStore) sentPatches() []*models.NotePatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.NotePatch(nil), s.patches...)
}

// fakeNotifier records surfaced messages.
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *fakeNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textDoc(text string) *richtext.Doc {
	d := richtext.NewDoc()
	d.Append(richtext.Paragraph(text))
	return d
}

func testNote(id, title string) *models.Note {
	return &models.Note{
		ID:      id,
		UserID:  "user-1",
		Title:   title,
		Content: richtext.NewDoc(),
	}
}
