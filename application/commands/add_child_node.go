package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/mindmap"
)

// AddChildNodeCommand grows the outline under a mind-map node: a child of
// the topic becomes a new group, a child of anything deeper becomes a new
// tweet in the parent's root group.
type AddChildNodeCommand struct {
	OutlineID    string `json:"outline_id" validate:"required"`
	UserID       string `json:"user_id" validate:"required"`
	ParentNodeID string `json:"parent_node_id" validate:"required"`
}

// Validate validates the command
func (cmd AddChildNodeCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.ParentNodeID == "" {
		return errors.New("parent node ID is required")
	}
	return nil
}

// AddChildNodeResult carries the new node back to the caller
type AddChildNodeResult struct {
	Node mindmap.Node `json:"node"`
}

// AddChildNodeHandler handles the AddChildNodeCommand
type AddChildNodeHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewAddChildNodeHandler creates a new handler instance
func NewAddChildNodeHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *AddChildNodeHandler {
	return &AddChildNodeHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the insertion and returns the created node
func (h *AddChildNodeHandler) Handle(ctx context.Context, cmd AddChildNodeCommand) (*AddChildNodeResult, error) {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	graph := mindmap.Project(outline)
	node, err := graph.AddChildNode(cmd.ParentNodeID, outline)
	if err != nil {
		return nil, err
	}

	if err := saveAndPublish(ctx, h.repo, h.publisher, outline); err != nil {
		return nil, err
	}

	h.logger.Debug("child node added",
		zap.String("outlineID", cmd.OutlineID),
		zap.String("parentID", cmd.ParentNodeID),
		zap.String("nodeID", node.ID),
	)

	return &AddChildNodeResult{Node: *node}, nil
}
