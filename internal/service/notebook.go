package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// NotebookService handles notebook CRUD, maintaining nesting depth.
type NotebookService struct {
	notebooks repositories.NotebookRepository
	logger    *slog.Logger
}

// NewNotebookService creates a new notebook service.
func NewNotebookService(notebooks repositories.NotebookRepository, logger *slog.Logger) *NotebookService {
	return &NotebookService{
		notebooks: notebooks,
		logger:    logger,
	}
}

// CreateNotebook creates a notebook, deriving its depth from the parent.
func (s *NotebookService) CreateNotebook(ctx context.Context, userID string, req *models.CreateNotebookRequest) (*models.Notebook, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxNotebookNameLength),
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	depth := 0
	if req.ParentID != nil {
		parent, err := s.notebooks.GetByID(ctx, *req.ParentID, userID)
		if err != nil {
			return nil, err
		}
		depth = parent.Depth + 1
		if depth > config.MaxNotebookDepth {
			return nil, fmt.Errorf("%w: notebooks nest at most %d levels", domain.ErrValidation, config.MaxNotebookDepth)
		}
	}

	nb := &models.Notebook{
		UserID:   userID,
		ParentID: req.ParentID,
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		Depth:    depth,
	}
	if err := s.notebooks.Create(ctx, nb); err != nil {
		return nil, err
	}

	s.logger.Info("notebook created", "id", nb.ID, "name", nb.Name, "depth", depth)
	return nb, nil
}

// GetNotebook retrieves a notebook.
func (s *NotebookService) GetNotebook(ctx context.Context, id, userID string) (*models.Notebook, error) {
	return s.notebooks.GetByID(ctx, id, userID)
}

// UpdateNotebook applies a partial update. Moving a notebook under a new
// parent recomputes its depth.
func (s *NotebookService) UpdateNotebook(ctx context.Context, id, userID string, req *models.UpdateNotebookRequest) (*models.Notebook, error) {
	nb, err := s.notebooks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if len(*req.Name) == 0 || len(*req.Name) > config.MaxNotebookNameLength {
			return nil, fmt.Errorf("%w: invalid notebook name", domain.ErrValidation)
		}
		nb.Name = *req.Name
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			nb.ParentID = nil
			nb.Depth = 0
		} else {
			if *req.ParentID == id {
				return nil, fmt.Errorf("%w: notebook cannot be its own parent", domain.ErrValidation)
			}
			parent, err := s.notebooks.GetByID(ctx, *req.ParentID, userID)
			if err != nil {
				return nil, err
			}
			if parent.Depth+1 > config.MaxNotebookDepth {
				return nil, fmt.Errorf("%w: notebooks nest at most %d levels", domain.ErrValidation, config.MaxNotebookDepth)
			}
			nb.ParentID = req.ParentID
			nb.Depth = parent.Depth + 1
		}
	}
	if req.Icon != nil {
		nb.Icon = req.Icon
	}
	if req.Color != nil {
		nb.Color = req.Color
	}
	if req.SortOrder != nil {
		nb.SortOrder = *req.SortOrder
	}

	if err := s.notebooks.Update(ctx, nb); err != nil {
		return nil, err
	}

	s.logger.Info("notebook updated", "id", nb.ID, "name", nb.Name)
	return nb, nil
}

// DeleteNotebook removes a notebook; its notes become unfiled.
func (s *NotebookService) DeleteNotebook(ctx context.Context, id, userID string) error {
	if err := s.notebooks.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("notebook deleted", "id", id)
	return nil
}

// ListNotebooks returns all of the user's notebooks.
func (s *NotebookService) ListNotebooks(ctx context.Context, userID string) ([]models.Notebook, error) {
	return s.notebooks.List(ctx, userID)
}
