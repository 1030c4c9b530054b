package editor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// fakeBlobs is an in-memory BlobStorage with per-path failure injection.
type fakeBlobs struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failAll    bool
	removes    []string
	failRemove bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (b *fakeBlobs) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll {
		return "", fmt.Errorf("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.objects[path] = data
	return path, nil
}

func (b *fakeBlobs) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

func (b *fakeBlobs) Remove(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failRemove {
		return fmt.Errorf("bucket unavailable")
	}
	b.removes = append(b.removes, path)
	delete(b.objects, path)
	return nil
}

// fakeAttachments is an in-memory AttachmentStore.
type fakeAttachments struct {
	mu            sync.Mutex
	rows          map[string]*models.Attachment
	nextID        int
	deletes       []string
	failCreateFor string // file name whose metadata insert fails
}

func newFakeAttachments() *fakeAttachments {
	return &fakeAttachments{rows: make(map[string]*models.Attachment)}
}

func (a *fakeAttachments) Create(ctx context.Context, att *models.Attachment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failCreateFor != "" && att.FileName == a.failCreateFor {
		return fmt.Errorf("insert attachment: constraint violation")
	}
	a.nextID++
	att.ID = fmt.Sprintf("att-%d", a.nextID)
	a.rows[att.ID] = att
	return nil
}

func (a *fakeAttachments) GetByID(ctx context.Context, id, userID string) (*models.Attachment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	att, ok := a.rows[id]
	if !ok {
		return nil, fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}
	return att, nil
}

func (a *fakeAttachments) Delete(ctx context.Context, id, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.rows[id]; !ok {
		return fmt.Errorf("attachment %s: %w", id, domain.ErrNotFound)
	}
	delete(a.rows, id)
	a.deletes = append(a.deletes, id)
	return nil
}

func (a *fakeAttachments) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rows)
}

func incoming(name, contentType, body string) IncomingFile {
	return IncomingFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func newUploadFixture(t *testing.T) (*Uploader, *Session, *fakeStore, *fakeBlobs, *fakeAttachments, *fakeNotifier) {
	t.Helper()
	store := newFakeStore(testNote("n1", "A"))
	clk := newFakeClock()
	notify := &fakeNotifier{}
	sess := NewSession("user-1", SessionConfig{
		Store:    store,
		Clock:    clk,
		Delay:    testDelay,
		Notifier: notify,
		Logger:   testLogger(),
	})
	require.NoError(t, sess.Open(context.Background(), "n1"))

	blobs := newFakeBlobs()
	atts := newFakeAttachments()
	up := NewUploader(blobs, atts, clk, notify, testLogger())
	return up, sess, store, blobs, atts, notify
}

// Images are inlined into the content tree; other files become
// attachments only.
func TestUploaderPartitionsImagesAndFiles(t *testing.T) {
	up, sess, _, _, atts, _ := newUploadFixture(t)

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("photo.png", "image/png", "pngdata"),
		incoming("notes.pdf", "application/pdf", "pdfdata"),
	}, 0)

	require.Len(t, results, 2)
	assert.True(t, results[0].Inlined)
	assert.False(t, results[1].Inlined)
	assert.Equal(t, 2, atts.count(), "both files get metadata rows")

	doc := sess.Note().Content
	require.Len(t, doc.Content, 1, "only the image is inlined")
	assert.Equal(t, "image", doc.Content[0].Type)
}

// One file's failure never aborts its siblings.
func TestUploaderPerFileFailureIsIndependent(t *testing.T) {
	up, sess, _, _, atts, notify := newUploadFixture(t)
	atts.failCreateFor = "broken.pdf"

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("good.png", "image/png", "pngdata"),
		incoming("broken.pdf", "application/pdf", "pdfdata"),
		incoming("also-good.txt", "text/plain", "textdata"),
	}, 0)

	require.Len(t, results, 3)
	assert.Nil(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[2].Err)

	assert.Equal(t, 2, atts.count())
	assert.Equal(t, 1, notify.errorCount())
}

func TestUploaderTotalFailureLeavesContentUntouched(t *testing.T) {
	up, sess, _, blobs, atts, _ := newUploadFixture(t)
	blobs.failAll = true

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("photo.png", "image/png", "pngdata"),
	}, 0)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 0, atts.count())
	assert.Empty(t, sess.Note().Content.Content)
}

func TestUploaderObjectPathsAreUnique(t *testing.T) {
	up, sess, _, blobs, _, _ := newUploadFixture(t)

	// Same file name uploaded twice; the timestamped path keeps them apart.
	clk := up.clock.(*fakeClock)
	res1 := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("photo.png", "image/png", "one"),
	}, 0)
	clk.Advance(1)
	res2 := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("photo.png", "image/png", "two"),
	}, 0)

	require.Nil(t, res1[0].Err)
	require.Nil(t, res2[0].Err)
	assert.NotEqual(t, res1[0].Attachment.StoragePath, res2[0].Attachment.StoragePath)
	assert.Len(t, blobs.objects, 2)
}

// Deletion removes the storage object before the metadata row.
func TestUploaderDeleteStorageFirst(t *testing.T) {
	up, sess, _, blobs, atts, _ := newUploadFixture(t)

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("notes.pdf", "application/pdf", "pdfdata"),
	}, 0)
	require.Nil(t, results[0].Err)
	id := results[0].Attachment.ID

	require.NoError(t, up.Delete(context.Background(), id, "user-1"))
	assert.Len(t, blobs.removes, 1)
	assert.Equal(t, 0, atts.count())
}

// If storage removal fails the metadata row survives, so the attachment
// stays discoverable for a retry.
func TestUploaderDeleteKeepsRowOnStorageFailure(t *testing.T) {
	up, sess, _, blobs, atts, _ := newUploadFixture(t)

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("notes.pdf", "application/pdf", "pdfdata"),
	}, 0)
	require.Nil(t, results[0].Err)
	id := results[0].Attachment.ID

	blobs.failRemove = true
	err := up.Delete(context.Background(), id, "user-1")
	require.Error(t, err)
	assert.Equal(t, 1, atts.count(), "row kept when the object may still exist")
}

func TestUploaderNoNoteBound(t *testing.T) {
	store := newFakeStore()
	clk := newFakeClock()
	notify := &fakeNotifier{}
	sess := NewSession("user-1", SessionConfig{
		Store:    store,
		Clock:    clk,
		Delay:    testDelay,
		Notifier: notify,
		Logger:   testLogger(),
	})
	up := NewUploader(newFakeBlobs(), newFakeAttachments(), clk, notify, testLogger())

	results := sess.OnFilesDropped(context.Background(), up, []IncomingFile{
		incoming("photo.png", "image/png", "pngdata"),
	}, 0)

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
