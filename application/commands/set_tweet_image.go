package commands

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"influflow/application/ports"
)

// SetTweetImageCommand attaches or replaces a tweet's image. An empty
// URL clears it.
type SetTweetImageCommand struct {
	OutlineID   string `json:"outline_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	TweetNumber int    `json:"tweet_number" validate:"required,min=1"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// Validate validates the command
func (cmd SetTweetImageCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.TweetNumber < 1 {
		return errors.New("tweet number must be positive")
	}
	if cmd.ImageURL != "" && !strings.HasPrefix(cmd.ImageURL, "http") {
		return errors.New("image URL must be absolute")
	}
	return nil
}

// SetTweetImageHandler handles the SetTweetImageCommand
type SetTweetImageHandler struct {
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewSetTweetImageHandler creates a new handler instance
func NewSetTweetImageHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *SetTweetImageHandler {
	return &SetTweetImageHandler{repo: repo, publisher: publisher, logger: logger}
}

// Handle executes the image update
func (h *SetTweetImageHandler) Handle(ctx context.Context, cmd SetTweetImageCommand) error {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return err
	}

	if err := outline.SetTweetImage(cmd.TweetNumber, cmd.ImageURL); err != nil {
		return err
	}

	h.logger.Debug("tweet image updated",
		zap.String("outlineID", cmd.OutlineID),
		zap.Int("tweetNumber", cmd.TweetNumber),
	)

	return saveAndPublish(ctx, h.repo, h.publisher, outline)
}
