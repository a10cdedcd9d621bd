package queries

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/pkg/common"
)

// ListOutlinesQuery lists a user's outlines, newest first
type ListOutlinesQuery struct {
	UserID     string                  `json:"user_id" validate:"required"`
	Pagination common.PaginationParams `json:"pagination"`
}

// Validate validates the query
func (q ListOutlinesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// OutlineSummary is one row of the listing
type OutlineSummary struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Format     string    `json:"format"`
	GroupCount int       `json:"group_count"`
	TweetCount int       `json:"tweet_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OutlineListView is the paginated listing read model
type OutlineListView struct {
	Outlines []OutlineSummary      `json:"outlines"`
	Page     common.PaginationInfo `json:"page"`
}

// ListOutlinesHandler handles the ListOutlinesQuery
type ListOutlinesHandler struct {
	repo   ports.OutlineRepository
	logger *zap.Logger
}

// NewListOutlinesHandler creates a new handler instance
func NewListOutlinesHandler(repo ports.OutlineRepository, logger *zap.Logger) *ListOutlinesHandler {
	return &ListOutlinesHandler{repo: repo, logger: logger}
}

// Handle executes the listing
func (h *ListOutlinesHandler) Handle(ctx context.Context, q ListOutlinesQuery) (*OutlineListView, error) {
	outlines, err := h.repo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	page := q.Pagination
	if page.Page < 1 {
		page = common.DefaultPaginationParams()
	}
	if page.PageSize < 1 {
		page.PageSize = common.DefaultPaginationParams().PageSize
	}

	total := len(outlines)
	start := page.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}

	summaries := make([]OutlineSummary, 0, end-start)
	for _, o := range outlines[start:end] {
		summaries = append(summaries, OutlineSummary{
			ID:         o.ID().String(),
			Topic:      o.Topic(),
			Format:     o.Format().String(),
			GroupCount: o.GroupCount(),
			TweetCount: o.TweetCount(),
			UpdatedAt:  o.UpdatedAt(),
		})
	}

	return &OutlineListView{
		Outlines: summaries,
		Page:     *common.BuildPaginationMeta(page.Page, page.PageSize, total),
	}, nil
}
