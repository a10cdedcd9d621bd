package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/markdown"
	"influflow/domain/mindmap"
)

// RenameNodeCommand changes a mind-map node's label. The node id decides
// what actually gets renamed: the topic, a group title, or a tweet title.
type RenameNodeCommand struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	NodeID    string `json:"node_id" validate:"required"`
	Label     string `json:"label" validate:"required,min=1,max=200"`
}

// Validate validates the command
func (cmd RenameNodeCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	if cmd.Label == "" {
		return errors.New("label is required")
	}
	return nil
}

// RenameNodeHandler handles the RenameNodeCommand
type RenameNodeHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewRenameNodeHandler creates a new handler instance
func NewRenameNodeHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *RenameNodeHandler {
	return &RenameNodeHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the rename
func (h *RenameNodeHandler) Handle(ctx context.Context, cmd RenameNodeCommand) error {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return err
	}

	// Group titles carry a presentation-only numbered decoration in
	// long-form documents; it must never be persisted.
	label := markdown.StripGroupDecoration(markdown.StripHTML(cmd.Label))

	graph := mindmap.Project(outline)
	if err := graph.ApplyLabelEdit(cmd.NodeID, label, outline); err != nil {
		return err
	}

	h.logger.Debug("node renamed",
		zap.String("outlineID", cmd.OutlineID),
		zap.String("nodeID", cmd.NodeID),
	)

	return saveAndPublish(ctx, h.repo, h.publisher, outline)
}
