package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/richtext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubNotes implements repositories.NoteRepository over a fixed map.
// Only GetByID matters to the share service; the rest are unreachable.
type stubNotes struct {
	notes map[string]*models.Note
}

func (s *stubNotes) Create(ctx context.Context, note *models.Note) error { return nil }

func (s *stubNotes) GetByID(ctx context.Context, id, userID string) (*models.Note, error) {
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return nil, fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return n, nil
}

func (s *stubNotes) UpdateFields(ctx context.Context, id, userID string, patch *models.NotePatch) error {
	return nil
}
func (s *stubNotes) SetFavorited(ctx context.Context, id, userID string, favorited bool) error {
	return nil
}
func (s *stubNotes) SetPinned(ctx context.Context, id, userID string, pinned bool) error { return nil }
func (s *stubNotes) MoveToTrash(ctx context.Context, id, userID string) error            { return nil }
func (s *stubNotes) RestoreFromTrash(ctx context.Context, id, userID string) error       { return nil }
func (s *stubNotes) Delete(ctx context.Context, id, userID string) error                 { return nil }
func (s *stubNotes) List(ctx context.Context, userID string, opts *models.NoteListOptions) ([]models.Note, error) {
	return nil, nil
}
func (s *stubNotes) Search(ctx context.Context, userID, query string) ([]models.Note, error) {
	return nil, nil
}

// stubLinks is an in-memory SharedLinkRepository.
type stubLinks struct {
	links  map[string]*models.SharedLink
	nextID int
	views  map[string]int
}

func newStubLinks() *stubLinks {
	return &stubLinks{links: make(map[string]*models.SharedLink), views: make(map[string]int)}
}

func (s *stubLinks) Create(ctx context.Context, link *models.SharedLink) error {
	s.nextID++
	link.ID = fmt.Sprintf("link-%d", s.nextID)
	s.links[link.ID] = link
	return nil
}

func (s *stubLinks) GetActiveByToken(ctx context.Context, token string) (*models.SharedLink, error) {
	for _, l := range s.links {
		if l.Token == token && l.Active {
			return l, nil
		}
	}
	return nil, fmt.Errorf("share token: %w", domain.ErrNotFound)
}

func (s *stubLinks) IncrementViewCount(ctx context.Context, id string) error {
	s.views[id]++
	return nil
}

func (s *stubLinks) Deactivate(ctx context.Context, id, userID string) error {
	l, ok := s.links[id]
	if !ok || l.UserID != userID {
		return fmt.Errorf("share link %s: %w", id, domain.ErrNotFound)
	}
	l.Active = false
	return nil
}

func (s *stubLinks) ListByNote(ctx context.Context, noteID, userID string) ([]models.SharedLink, error) {
	var out []models.SharedLink
	for _, l := range s.links {
		if l.NoteID == noteID && l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func newShareFixture() (*ShareService, *stubLinks) {
	doc := richtext.NewDoc()
	doc.Append(richtext.Paragraph("shared body"))
	notes := &stubNotes{notes: map[string]*models.Note{
		"n1": {ID: "n1", UserID: "owner", Title: "Public Note", Content: doc},
	}}
	links := newStubLinks()
	return NewShareService(links, notes, testLogger()), links
}

func TestShareCreateAndRedeem(t *testing.T) {
	svc, links := newShareFixture()
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, "owner", &models.CreateShareRequest{NoteID: "n1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link.Token == "" {
		t.Fatal("no token issued")
	}
	if link.PasswordHash != nil {
		t.Error("password hash set without a password")
	}

	shared, err := svc.Redeem(ctx, link.Token, "")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if shared.Title != "Public Note" {
		t.Errorf("title = %q", shared.Title)
	}
	if links.views[link.ID] != 1 {
		t.Errorf("view count = %d, want 1", links.views[link.ID])
	}
}

func TestShareCreateRejectsForeignNote(t *testing.T) {
	svc, _ := newShareFixture()

	_, err := svc.CreateLink(context.Background(), "stranger", &models.CreateShareRequest{NoteID: "n1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestSharePasswordProtection(t *testing.T) {
	svc, _ := newShareFixture()
	ctx := context.Background()

	password := "hunter2"
	link, err := svc.CreateLink(ctx, "owner", &models.CreateShareRequest{
		NoteID:   "n1",
		Password: &password,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if link.PasswordHash == nil {
		t.Fatal("no password hash stored")
	}
	if *link.PasswordHash == password {
		t.Fatal("password stored in the clear")
	}

	if _, err := svc.Redeem(ctx, link.Token, "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong password: err = %v, want unauthorized", err)
	}
	if _, err := svc.Redeem(ctx, link.Token, password); err != nil {
		t.Errorf("correct password: %v", err)
	}
}

func TestShareExpiry(t *testing.T) {
	svc, links := newShareFixture()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	if _, err := svc.CreateLink(ctx, "owner", &models.CreateShareRequest{
		NoteID:    "n1",
		ExpiresAt: &past,
	}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("past expiry accepted: %v", err)
	}

	future := time.Now().Add(time.Minute)
	link, err := svc.CreateLink(ctx, "owner", &models.CreateShareRequest{
		NoteID:    "n1",
		ExpiresAt: &future,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Force the stored link past its expiry.
	expired := time.Now().Add(-time.Second)
	links.links[link.ID].ExpiresAt = &expired

	if _, err := svc.Redeem(ctx, link.Token, ""); !errors.Is(err, domain.ErrExpired) {
		t.Errorf("err = %v, want expired", err)
	}
}

func TestShareDeactivate(t *testing.T) {
	svc, _ := newShareFixture()
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, "owner", &models.CreateShareRequest{NoteID: "n1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(ctx, link.ID, "owner"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Redeem(ctx, link.Token, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("revoked link still redeemable: %v", err)
	}
}
