package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/ports"
	"influflow/domain/config"
	"influflow/domain/core/aggregates"
	"influflow/domain/core/valueobjects"
	"influflow/pkg/extensions"
	"influflow/pkg/observability"
)

// GenerateOutlineOrchestrator drives a full generation: call the
// generator, validate the raw outline into an aggregate, persist it, and
// announce it. Slot arbitration happens one layer up in the generation
// session service, which cancels a superseded request's context; the
// orchestrator's part is refusing to persist once that has happened.
type GenerateOutlineOrchestrator struct {
	generator ports.ContentGenerator
	repo      ports.OutlineRepository
	publisher ports.EventPublisher
	hooks     *extensions.HookManager
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewGenerateOutlineOrchestrator creates a new orchestrator instance
func NewGenerateOutlineOrchestrator(
	generator ports.ContentGenerator,
	repo ports.OutlineRepository,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *GenerateOutlineOrchestrator {
	return &GenerateOutlineOrchestrator{
		generator: generator,
		repo:      repo,
		publisher: publisher,
		hooks:     hooks,
		tracer:    tracer,
		logger:    logger,
	}
}

// Handle orchestrates the generation process
func (o *GenerateOutlineOrchestrator) Handle(ctx context.Context, cmd commands.GenerateOutlineCommand) (*aggregates.Outline, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	if o.hooks != nil {
		if err := o.hooks.Execute(ctx, extensions.HookBeforeOutlineGenerate, cmd); err != nil {
			return nil, err
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, config.DefaultDomainConfig().GenerationTimeout)
	defer cancel()

	var raw *ports.GeneratedOutline
	err := o.tracer.TraceFunction(genCtx, "content_generation", func(ctx context.Context) error {
		var genErr error
		raw, genErr = o.generator.GenerateOutline(ctx, ports.GenerationRequest{
			UserID:       cmd.UserID,
			Topic:        cmd.Topic,
			Format:       valueobjects.ContentFormat(cmd.Format),
			Instructions: cmd.Instructions,
		})
		return genErr
	})
	if err != nil {
		o.logger.Error("generation failed",
			zap.String("userID", cmd.UserID),
			zap.String("topic", cmd.Topic),
			zap.Error(err),
		)
		return nil, fmt.Errorf("outline generation failed: %w", err)
	}

	topic := raw.Topic
	if topic == "" {
		topic = cmd.Topic
	}

	outline, err := aggregates.NewOutline(cmd.UserID, topic, valueobjects.ContentFormat(cmd.Format), raw.Groups)
	if err != nil {
		return nil, fmt.Errorf("generated outline rejected: %w", err)
	}

	// The generator may resolve after the request has been abandoned: the
	// session service cancels this context when a newer request takes the
	// slot. A late result must be dropped here, before it is persisted.
	if err := ctx.Err(); err != nil {
		o.logger.Info("discarding stale generation result",
			zap.String("userID", cmd.UserID),
			zap.String("topic", cmd.Topic),
		)
		return nil, err
	}

	if err := o.repo.Save(ctx, outline); err != nil {
		return nil, fmt.Errorf("failed to save outline: %w", err)
	}

	if o.publisher != nil {
		_ = o.publisher.PublishBatch(ctx, outline.GetUncommittedEvents())
	}
	outline.MarkEventsAsCommitted()

	if o.hooks != nil {
		o.hooks.ExecuteAsync(ctx, extensions.HookAfterOutlineSaved, outline)
	}

	o.logger.Info("outline generated",
		zap.String("outlineID", outline.ID().String()),
		zap.String("userID", cmd.UserID),
		zap.Int("groups", outline.GroupCount()),
		zap.Int("tweets", outline.TweetCount()),
	)

	return outline, nil
}
