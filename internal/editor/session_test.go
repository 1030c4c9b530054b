package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
)

func newTestSession(store *fakeStore) (*Session, *fakeClock, *fakeNotifier) {
	clk := newFakeClock()
	notify := &fakeNotifier{}
	sess := NewSession("user-1", SessionConfig{
		Store:    store,
		Clock:    clk,
		Delay:    testDelay,
		Notifier: notify,
		Logger:   testLogger(),
	})
	return sess, clk, notify
}

func TestSessionOpenBindsNote(t *testing.T) {
	store := newFakeStore(testNote("n1", "First"))
	sess, _, _ := newTestSession(store)

	require.NoError(t, sess.Open(context.Background(), "n1"))
	assert.Equal(t, StateBound, sess.State())
	assert.Equal(t, "First", sess.Note().Title)
}

func TestSessionOpenMissingNoteIsTerminal(t *testing.T) {
	store := newFakeStore()
	sess, _, _ := newTestSession(store)

	err := sess.Open(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, StateNotFound, sess.State())
	assert.Nil(t, sess.Note())
}

// The canonical typing flow: type "Hello", wait out the debounce, and
// exactly one write lands carrying content, plain text and word count.
func TestSessionTypingPersistsOnce(t *testing.T) {
	store := newFakeStore(testNote("n1", ""))
	sess, clk, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	for _, text := range []string{"H", "He", "Hel", "Hell", "Hello"} {
		sess.OnContentChanged(textDoc(text))
		clk.Advance(100 * time.Millisecond)
	}

	require.Empty(t, store.sentPatches(), "no write during the burst")

	clk.Advance(testDelay)
	patches := store.sentPatches()
	require.Len(t, patches, 1)
	assert.Equal(t, "Hello", *patches[0].PlainText)
	assert.Equal(t, 1, *patches[0].WordCount)
	require.NotNil(t, patches[0].Content)

	// The local snapshot reflects the edit immediately.
	assert.Equal(t, 1, sess.WordCount())
}

func TestSessionTitleAndContentCoalesce(t *testing.T) {
	store := newFakeStore(testNote("n1", ""))
	sess, clk, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnTitleChanged("Groceries")
	sess.OnContentChanged(textDoc("milk and eggs"))

	clk.Advance(testDelay)
	patches := store.sentPatches()
	require.Len(t, patches, 1)
	assert.Equal(t, "Groceries", *patches[0].Title)
	assert.Equal(t, "milk and eggs", *patches[0].PlainText)
	assert.Equal(t, 3, *patches[0].WordCount)
}

// Switching notes flushes the outgoing note's buffered patch before the
// incoming note is loaded.
func TestSessionSwitchFlushesBeforeLoad(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"), testNote("n2", "B"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnContentChanged(textDoc("unsaved edit"))
	require.NoError(t, sess.Switch(context.Background(), "n2"))

	ops := store.opLog()
	require.Equal(t, []string{"get:n1", "update:n1", "get:n2"}, ops)
	assert.Equal(t, "n2", sess.Note().ID)
}

func TestSessionSwitchToSameNoteIsNoop(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnContentChanged(textDoc("pending"))
	require.NoError(t, sess.Switch(context.Background(), "n1"))

	// No flush, no reload; the pending edit stays buffered.
	assert.Equal(t, []string{"get:n1"}, store.opLog())
}

func TestSessionCloseFlushesBufferedPatch(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnContentChanged(textDoc("last words"))
	sess.Close()

	require.Len(t, store.sentPatches(), 1)
	assert.Equal(t, StateUnmounted, sess.State())
}

func TestSessionCloseWithCleanBufferWritesNothing(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.Close()
	assert.Empty(t, store.sentPatches())
}

func TestSessionTitleBlurFlushesAndRefreshesList(t *testing.T) {
	store := newFakeStore(testNote("n1", "Old"))
	clk := newFakeClock()
	listRefreshed := 0
	sess := NewSession("user-1", SessionConfig{
		Store:         store,
		Clock:         clk,
		Delay:         testDelay,
		Notifier:      &fakeNotifier{},
		Logger:        testLogger(),
		OnListChanged: func() { listRefreshed++ },
	})
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnTitleChanged("New")
	sess.OnTitleBlur(context.Background())

	patches := store.sentPatches()
	require.Len(t, patches, 1)
	assert.Equal(t, "New", *patches[0].Title)
	assert.Equal(t, 1, listRefreshed)

	// Nothing left for the timer.
	clk.Advance(10 * time.Second)
	assert.Len(t, store.sentPatches(), 1)
}

// Favorite toggles write immediately; they never wait out the debounce.
func TestSessionToggleFavoriteIsImmediate(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	require.NoError(t, sess.ToggleFavorite(context.Background()))
	assert.Contains(t, store.opLog(), "favorite:n1:true")
	assert.True(t, sess.Note().Favorited)

	require.NoError(t, sess.ToggleFavorite(context.Background()))
	assert.Contains(t, store.opLog(), "favorite:n1:false")
	assert.False(t, sess.Note().Favorited)
}

func TestSessionTrashAndRestore(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, notify := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	require.NoError(t, sess.MoveToTrash(context.Background()))
	assert.True(t, sess.Note().Trashed)
	assert.NotNil(t, sess.Note().TrashedAt)

	require.NoError(t, sess.RestoreFromTrash(context.Background()))
	assert.False(t, sess.Note().Trashed)
	assert.Nil(t, sess.Note().TrashedAt)

	notify.mu.Lock()
	defer notify.mu.Unlock()
	assert.Equal(t, []string{"Moved to trash", "Restored from trash"}, notify.successes)
}

// Permanent deletion drops buffered edits instead of flushing them;
// there is no note left to save to.
func TestSessionDeleteDropsBufferedEdits(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, clk, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.OnContentChanged(textDoc("doomed edit"))
	require.NoError(t, sess.MoveToTrash(context.Background()))
	require.NoError(t, sess.DeletePermanently(context.Background()))

	assert.Equal(t, StateNotFound, sess.State())
	assert.Nil(t, sess.Note())

	clk.Advance(10 * time.Second)
	assert.Empty(t, store.sentPatches())
}

// Permanent deletion is only reachable from the trash; a bound note
// that was never trashed is refused and stays bound.
func TestSessionDeleteRequiresTrash(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, _, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	err := sess.DeletePermanently(context.Background())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StateBound, sess.State())
	assert.NotContains(t, store.opLog(), "delete:n1")
}

func TestSessionEditsIgnoredWhenNotBound(t *testing.T) {
	store := newFakeStore()
	sess, clk, _ := newTestSession(store)

	_ = sess.Open(context.Background(), "ghost")
	sess.OnContentChanged(textDoc("into the void"))
	sess.OnTitleChanged("nobody home")

	clk.Advance(10 * time.Second)
	assert.Empty(t, store.sentPatches())
}

func TestSessionInsertImageGoesThroughEditPath(t *testing.T) {
	store := newFakeStore(testNote("n1", "A"))
	sess, clk, _ := newTestSession(store)
	require.NoError(t, sess.Open(context.Background(), "n1"))

	sess.InsertImage("https://cdn.example.com/pic.png", 0)

	clk.Advance(testDelay)
	patches := store.sentPatches()
	require.Len(t, patches, 1)
	require.NotNil(t, patches[0].Content)
	require.Len(t, patches[0].Content.Content, 1)
	assert.Equal(t, "image", patches[0].Content.Content[0].Type)
}
