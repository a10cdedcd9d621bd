package queries

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/core/aggregates"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	pkgerrors "influflow/pkg/errors"
)

// GetOutlineQuery fetches a single outline
type GetOutlineQuery struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetOutlineQuery) Validate() error {
	if q.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// OutlineView is the read model for a full outline
type OutlineView struct {
	ID        string                  `json:"id"`
	Topic     string                  `json:"topic"`
	Format    string                  `json:"format"`
	Groups    []entities.OutlineGroup `json:"groups"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Version   int                     `json:"version"`
}

// NewOutlineView builds the read model from an aggregate
func NewOutlineView(o *aggregates.Outline) *OutlineView {
	return &OutlineView{
		ID:        o.ID().String(),
		Topic:     o.Topic(),
		Format:    o.Format().String(),
		Groups:    o.Groups(),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.UpdatedAt(),
		Version:   o.Version(),
	}
}

// GetOutlineHandler handles the GetOutlineQuery
type GetOutlineHandler struct {
	repo   ports.OutlineRepository
	logger *zap.Logger
}

// NewGetOutlineHandler creates a new handler instance
func NewGetOutlineHandler(repo ports.OutlineRepository, logger *zap.Logger) *GetOutlineHandler {
	return &GetOutlineHandler{repo: repo, logger: logger}
}

// Handle executes the query
func (h *GetOutlineHandler) Handle(ctx context.Context, q GetOutlineQuery) (*OutlineView, error) {
	outline, err := loadReadable(ctx, h.repo, q.OutlineID, q.UserID)
	if err != nil {
		return nil, err
	}
	return NewOutlineView(outline), nil
}

// loadReadable fetches an outline and enforces read access
func loadReadable(ctx context.Context, repo ports.OutlineRepository, outlineID, userID string) (*aggregates.Outline, error) {
	id, err := valueobjects.NewOutlineIDFromString(outlineID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid outline ID")
	}

	outline, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if outline.UserID() != userID {
		return nil, pkgerrors.NewForbiddenError("outline belongs to another user")
	}

	return outline, nil
}
