package memory

import (
	"context"
	"sort"
	"sync"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/valueobjects"
	pkgerrors "influflow/pkg/errors"
)

// OutlineRepository is an in-memory outline store. It backs local
// development and tests; production uses the DynamoDB implementation.
type OutlineRepository struct {
	mu       sync.RWMutex
	outlines map[string]*storedOutline
}

type storedOutline struct {
	outline *aggregates.Outline
}

// NewOutlineRepository creates an empty in-memory repository
func NewOutlineRepository() *OutlineRepository {
	return &OutlineRepository{
		outlines: make(map[string]*storedOutline),
	}
}

// Save persists an outline
func (r *OutlineRepository) Save(_ context.Context, outline *aggregates.Outline) error {
	copied, err := cloneOutline(outline)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlines[outline.ID().String()] = &storedOutline{outline: copied}
	return nil
}

// GetByID retrieves an outline by its ID
func (r *OutlineRepository) GetByID(_ context.Context, id valueobjects.OutlineID) (*aggregates.Outline, error) {
	r.mu.RLock()
	stored, ok := r.outlines[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, pkgerrors.NewNotFoundError("outline")
	}
	return cloneOutline(stored.outline)
}

// GetByUserID retrieves all outlines owned by a user, newest first
func (r *OutlineRepository) GetByUserID(_ context.Context, userID string) ([]*aggregates.Outline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*aggregates.Outline
	for _, stored := range r.outlines {
		if stored.outline.UserID() != userID {
			continue
		}
		copied, err := cloneOutline(stored.outline)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt().After(out[j].UpdatedAt())
	})
	return out, nil
}

// Delete removes an outline
func (r *OutlineRepository) Delete(_ context.Context, id valueobjects.OutlineID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.outlines[id.String()]; !ok {
		return pkgerrors.NewNotFoundError("outline")
	}
	delete(r.outlines, id.String())
	return nil
}

// cloneOutline rebuilds an independent aggregate so callers can never
// mutate the stored copy in place
func cloneOutline(o *aggregates.Outline) (*aggregates.Outline, error) {
	return aggregates.ReconstructOutline(
		o.ID(), o.UserID(), o.Topic(), o.Format(), o.Groups(),
		o.CreatedAt(), o.UpdatedAt(), o.Version(), o.HighWater(),
	)
}
