package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/events"
)

// DeleteOutlineCommand removes an entire outline
type DeleteOutlineCommand struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteOutlineCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// DeleteOutlineHandler handles the DeleteOutlineCommand
type DeleteOutlineHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteOutlineHandler creates a new handler instance
func NewDeleteOutlineHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *DeleteOutlineHandler {
	return &DeleteOutlineHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the delete
func (h *DeleteOutlineHandler) Handle(ctx context.Context, cmd DeleteOutlineCommand) error {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, outline.ID()); err != nil {
		return err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(ctx, events.NewOutlineDeleted(cmd.OutlineID, cmd.UserID, time.Now()))
	}

	h.logger.Info("outline deleted",
		zap.String("outlineID", cmd.OutlineID),
		zap.String("userID", cmd.UserID),
	)

	return nil
}
