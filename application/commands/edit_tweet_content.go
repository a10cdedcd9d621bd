package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/config"
	"influflow/domain/markdown"
)

// EditSourceEditor and EditSourceAI tag where a content edit came from
const (
	EditSourceEditor = "editor"
	EditSourceAI     = "ai"
)

// EditTweetContentCommand replaces one tweet's body text. Content may
// arrive as rich-text HTML; the handler normalizes it to plain text
// before it reaches the aggregate.
type EditTweetContentCommand struct {
	OutlineID   string `json:"outline_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	TweetNumber int    `json:"tweet_number" validate:"required,min=1"`
	Content     string `json:"content"`
	Source      string `json:"source" validate:"oneof=editor ai"`
}

// Validate validates the command
func (cmd EditTweetContentCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.TweetNumber < 1 {
		return errors.New("tweet number must be positive")
	}
	if len(cmd.Content) > config.DefaultDomainConfig().MaxTweetLength {
		return errors.New("content exceeds maximum length")
	}
	if cmd.Source != EditSourceEditor && cmd.Source != EditSourceAI {
		return errors.New("source must be editor or ai")
	}
	return nil
}

// EditTweetContentHandler handles the EditTweetContentCommand
type EditTweetContentHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewEditTweetContentHandler creates a new handler instance
func NewEditTweetContentHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *EditTweetContentHandler {
	return &EditTweetContentHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the edit
func (h *EditTweetContentHandler) Handle(ctx context.Context, cmd EditTweetContentCommand) error {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return err
	}

	content := markdown.StripHTML(cmd.Content)
	if err := outline.EditTweetContent(cmd.TweetNumber, content, cmd.Source); err != nil {
		return err
	}

	h.logger.Debug("tweet content edited",
		zap.String("outlineID", cmd.OutlineID),
		zap.Int("tweetNumber", cmd.TweetNumber),
		zap.String("source", cmd.Source),
	)

	return saveAndPublish(ctx, h.repo, h.publisher, outline)
}
