package ports

import (
	"context"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/valueobjects"
)

// OutlineRepository is the persistence port for the outline aggregate.
// The domain never sees the implementation.
type OutlineRepository interface {
	// Save persists an outline (create or update)
	Save(ctx context.Context, outline *aggregates.Outline) error

	// GetByID retrieves an outline by its ID
	GetByID(ctx context.Context, id valueobjects.OutlineID) (*aggregates.Outline, error)

	// GetByUserID retrieves all outlines owned by a user, newest first
	GetByUserID(ctx context.Context, userID string) ([]*aggregates.Outline, error)

	// Delete removes an outline
	Delete(ctx context.Context, id valueobjects.OutlineID) error
}

// Cache defines the interface for caching derived projections
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
