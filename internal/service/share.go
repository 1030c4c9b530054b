package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// ShareService issues, redeems and revokes public share links.
type ShareService struct {
	links  repositories.SharedLinkRepository
	notes  repositories.NoteRepository
	logger *slog.Logger
}

// NewShareService creates a new share service.
func NewShareService(links repositories.SharedLinkRepository, notes repositories.NoteRepository, logger *slog.Logger) *ShareService {
	return &ShareService{
		links:  links,
		notes:  notes,
		logger: logger,
	}
}

// CreateLink issues a share link for a note the user owns. The token is
// an opaque UUID; a password, when given, is stored only as a bcrypt
// hash.
func (s *ShareService) CreateLink(ctx context.Context, userID string, req *models.CreateShareRequest) (*models.SharedLink, error) {
	if req.NoteID == "" {
		return nil, fmt.Errorf("%w: note_id is required", domain.ErrValidation)
	}
	if _, err := s.notes.GetByID(ctx, req.NoteID, userID); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", domain.ErrValidation)
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash share password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	link := &models.SharedLink{
		NoteID:       req.NoteID,
		UserID:       userID,
		Token:        uuid.NewString(),
		PasswordHash: passwordHash,
		ExpiresAt:    req.ExpiresAt,
		Active:       true,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("share link created",
		"note_id", req.NoteID,
		"link_id", link.ID,
		"password_protected", passwordHash != nil,
	)
	return link, nil
}

// Redeem resolves a token to the shared note, enforcing expiry and the
// optional password. Expired links report ErrExpired so callers can
// distinguish them from unknown tokens.
func (s *ShareService) Redeem(ctx context.Context, token, password string) (*models.SharedNote, error) {
	link, err := s.links.GetActiveByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("share link: %w", domain.ErrExpired)
	}

	if link.PasswordHash != nil {
		err := bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return nil, fmt.Errorf("share password: %w", domain.ErrUnauthorized)
			}
			return nil, fmt.Errorf("verify share password: %w", err)
		}
	}

	note, err := s.notes.GetByID(ctx, link.NoteID, link.UserID)
	if err != nil {
		return nil, err
	}

	// Counting a view is best effort; the read must not fail on it.
	if err := s.links.IncrementViewCount(ctx, link.ID); err != nil {
		s.logger.Warn("increment share view count failed", "link_id", link.ID, "error", err)
	}

	return &models.SharedNote{
		Title:   note.Title,
		Content: note.Content,
	}, nil
}

// Deactivate revokes a share link.
func (s *ShareService) Deactivate(ctx context.Context, id, userID string) error {
	if err := s.links.Deactivate(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("share link deactivated", "link_id", id)
	return nil
}

// ListLinks returns a note's share links.
func (s *ShareService) ListLinks(ctx context.Context, noteID, userID string) ([]models.SharedLink, error) {
	if _, err := s.notes.GetByID(ctx, noteID, userID); err != nil {
		return nil, err
	}
	return s.links.ListByNote(ctx, noteID, userID)
}
