package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"influflow/application/ports"
)

// ApplyAIEditCommand asks the generator to rewrite one tweet's content
// and applies the result. Only the body changes; the title stays.
type ApplyAIEditCommand struct {
	OutlineID   string `json:"outline_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	TweetNumber int    `json:"tweet_number" validate:"required,min=1"`
	Instruction string `json:"instruction" validate:"required,max=2000"`
}

// Validate validates the command
func (cmd ApplyAIEditCommand) Validate() error {
	if cmd.OutlineID == "" {
		return errors.New("outline ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.TweetNumber < 1 {
		return errors.New("tweet number must be positive")
	}
	if cmd.Instruction == "" {
		return errors.New("instruction is required")
	}
	return nil
}

// ApplyAIEditHandler handles the ApplyAIEditCommand
type ApplyAIEditHandler struct {
	repo      ports.OutlineRepository
	generator ports.ContentGenerator
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewApplyAIEditHandler creates a new handler instance
func NewApplyAIEditHandler(repo ports.OutlineRepository, generator ports.ContentGenerator, publisher ports.EventPublisher, logger *zap.Logger) *ApplyAIEditHandler {
	return &ApplyAIEditHandler{repo: repo, generator: generator, publisher: publisher, logger: logger}
}

// Handle executes the AI edit
func (h *ApplyAIEditHandler) Handle(ctx context.Context, cmd ApplyAIEditCommand) error {
	outline, err := loadOwned(ctx, h.repo, cmd.OutlineID, cmd.UserID)
	if err != nil {
		return err
	}

	tweet, ok := outline.FindTweet(cmd.TweetNumber)
	if !ok {
		// The tweet may have been deleted while the request was in
		// flight. The edit is dropped without error so a stale editor
		// cannot fail a whole save.
		h.logger.Warn("ai edit targets missing tweet, dropping",
			zap.String("outlineID", cmd.OutlineID),
			zap.Int("tweetNumber", cmd.TweetNumber),
		)
		return nil
	}

	rewritten, err := h.generator.EditTweet(ctx, ports.TweetEditRequest{
		UserID:      cmd.UserID,
		Topic:       outline.Topic(),
		TweetNumber: cmd.TweetNumber,
		Content:     tweet.Content,
		Instruction: cmd.Instruction,
	})
	if err != nil {
		return err
	}

	if err := outline.EditTweetContent(cmd.TweetNumber, rewritten, EditSourceAI); err != nil {
		return err
	}

	return saveAndPublish(ctx, h.repo, h.publisher, outline)
}
