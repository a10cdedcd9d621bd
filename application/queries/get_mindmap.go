package queries

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/mindmap"
)

// GetMindmapQuery projects an outline into its mind-map graph view
type GetMindmapQuery struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetMindmapQuery) Validate() error {
	if q.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// MindmapView is the laid-out graph read model
type MindmapView struct {
	OutlineID string        `json:"outline_id"`
	Nodes     []mindmap.Node `json:"nodes"`
	Edges     []mindmap.Edge `json:"edges"`
}

// GetMindmapHandler handles the GetMindmapQuery
type GetMindmapHandler struct {
	repo   ports.OutlineRepository
	layout ports.LayoutEngine
	logger *zap.Logger
}

// NewGetMindmapHandler creates a new handler instance
func NewGetMindmapHandler(repo ports.OutlineRepository, layout ports.LayoutEngine, logger *zap.Logger) *GetMindmapHandler {
	return &GetMindmapHandler{repo: repo, layout: layout, logger: logger}
}

// Handle projects the outline and runs the layout engine over the result
func (h *GetMindmapHandler) Handle(ctx context.Context, q GetMindmapQuery) (*MindmapView, error) {
	outline, err := loadReadable(ctx, h.repo, q.OutlineID, q.UserID)
	if err != nil {
		return nil, err
	}

	graph := mindmap.Project(outline)
	if h.layout != nil {
		if err := h.layout.Layout(graph); err != nil {
			// Layout failure degrades to unpositioned nodes; the graph
			// itself is still valid.
			h.logger.Warn("layout failed", zap.String("outlineID", q.OutlineID), zap.Error(err))
		}
	}

	return &MindmapView{
		OutlineID: q.OutlineID,
		Nodes:     graph.Nodes,
		Edges:     graph.Edges,
	}, nil
}
