package commands

import (
	"context"

	"influflow/application/ports"
	"influflow/domain/core/aggregates"
	"influflow/domain/core/valueobjects"
	pkgerrors "influflow/pkg/errors"
)

// loadOwned fetches an outline and enforces ownership. Every mutating
// command goes through this gate.
func loadOwned(ctx context.Context, repo ports.OutlineRepository, outlineID, userID string) (*aggregates.Outline, error) {
	id, err := valueobjects.NewOutlineIDFromString(outlineID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid outline ID")
	}

	outline, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if outline.UserID() != userID {
		return nil, pkgerrors.NewForbiddenError("outline belongs to another user")
	}

	return outline, nil
}

// saveAndPublish persists the aggregate and flushes its events. Event
// delivery is best effort; persistence is not.
func saveAndPublish(ctx context.Context, repo ports.OutlineRepository, publisher ports.EventPublisher, outline *aggregates.Outline) error {
	if err := repo.Save(ctx, outline); err != nil {
		return err
	}

	if publisher != nil {
		// Failed publishes are dropped rather than failing the edit; the
		// saved aggregate is the source of truth.
		_ = publisher.PublishBatch(ctx, outline.GetUncommittedEvents())
	}
	outline.MarkEventsAsCommitted()

	return nil
}
