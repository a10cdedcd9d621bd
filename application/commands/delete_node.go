package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/mindmap"
)

// DeleteNodeCommand removes a mind-map node and everything beneath it
// from the outline.
type DeleteNodeCommand struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	NodeID    string `json:"node_id" validate:"required"`
}

// Validate validates the command
func (cmd DeleteNodeCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// DeleteNodeResult lists the node ids removed by the cascade
type DeleteNodeResult struct {
	RemovedNodeIDs []string `json:"removed_node_ids"`
}

// DeleteNodeHandler handles the DeleteNodeCommand
type DeleteNodeHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteNodeHandler creates a new handler instance
func NewDeleteNodeHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *DeleteNodeHandler {
	return &DeleteNodeHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the cascading delete
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd DeleteNodeCommand) (*DeleteNodeResult, error) {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	graph := mindmap.Project(outline)
	removed, err := graph.DeleteNode(cmd.NodeID, outline)
	if err != nil {
		return nil, err
	}

	if err := saveAndPublish(ctx, h.repo, h.publisher, outline); err != nil {
		return nil, err
	}

	h.logger.Info("subtree deleted",
		zap.String("outlineID", cmd.OutlineID),
		zap.String("nodeID", cmd.NodeID),
		zap.Int("removedCount", len(removed)),
	)

	return &DeleteNodeResult{RemovedNodeIDs: removed}, nil
}
