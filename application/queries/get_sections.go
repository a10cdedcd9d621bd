package queries

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/core/valueobjects"
	"influflow/domain/markdown"
)

// GetSectionsQuery renders an outline into its section list and resolves
// each section's interaction state against the caller's editor context.
// Interaction identifiers arrive as strings or numbers; both are accepted.
type GetSectionsQuery struct {
	OutlineID string `json:"outline_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`

	HighlightedSectionID valueobjects.FlexID   `json:"highlighted_section_id,omitempty"`
	HoveredID            valueobjects.FlexID   `json:"hovered_id,omitempty"`
	EditingID            valueobjects.FlexID   `json:"editing_id,omitempty"`
	SelectedID           valueobjects.FlexID   `json:"selected_id,omitempty"`
	LoadingID            valueobjects.FlexID   `json:"loading_id,omitempty"`
	GeneratingImageIDs   []valueobjects.FlexID `json:"generating_image_ids,omitempty"`
}

// Validate validates the query
func (q GetSectionsQuery) Validate() error {
	if q.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// SectionView is one section plus its resolved interaction state
type SectionView struct {
	markdown.Section
	State markdown.SectionState `json:"state"`
}

// SectionsView is the full document read model
type SectionsView struct {
	OutlineID string        `json:"outline_id"`
	Markdown  string        `json:"markdown"`
	Sections  []SectionView `json:"sections"`
}

// GetSectionsHandler handles the GetSectionsQuery
type GetSectionsHandler struct {
	repo   ports.OutlineRepository
	logger *zap.Logger
}

// NewGetSectionsHandler creates a new handler instance
func NewGetSectionsHandler(repo ports.OutlineRepository, logger *zap.Logger) *GetSectionsHandler {
	return &GetSectionsHandler{repo: repo, logger: logger}
}

// Handle renders, parses, and resolves state in one pass. Sections are
// rebuilt from scratch every time; nothing here is cached against the
// aggregate.
func (h *GetSectionsHandler) Handle(ctx context.Context, q GetSectionsQuery) (*SectionsView, error) {
	outline, err := loadReadable(ctx, h.repo, q.OutlineID, q.UserID)
	if err != nil {
		return nil, err
	}

	md := markdown.Render(outline)
	sections := markdown.Parse(md)

	hctx := markdown.HighlightContext{
		HighlightedSectionID: q.HighlightedSectionID,
		HoveredID:            q.HoveredID,
		EditingID:            q.EditingID,
		SelectedID:           q.SelectedID,
		LoadingID:            q.LoadingID,
		GeneratingImageIDs:   q.GeneratingImageIDs,
	}

	views := make([]SectionView, len(sections))
	for i, s := range sections {
		views[i] = SectionView{
			Section: s,
			State:   markdown.ResolveState(s, hctx),
		}
	}

	return &SectionsView{
		OutlineID: q.OutlineID,
		Markdown:  md,
		Sections:  views,
	}, nil
}
