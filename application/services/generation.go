package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/handlers"
	"influflow/domain/core/aggregates"
	"influflow/pkg/extensions"
)

// ErrSuperseded reports that a newer generation request won the slot
// while this one was in flight.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// GenerationService serializes outline generations per editor slot with
// last-request-wins semantics: starting a new generation cancels the one
// in flight, and a response that arrives after it has been superseded is
// dropped instead of applied.
type GenerationService struct {
	orchestrator *handlers.GenerateOutlineOrchestrator
	hooks        *extensions.HookManager
	logger       *zap.Logger

	mu    sync.Mutex
	slots map[string]*generationSlot
}

type generationSlot struct {
	latest uint64
	cancel context.CancelFunc
}

// NewGenerationService creates a new generation service
func NewGenerationService(orchestrator *handlers.GenerateOutlineOrchestrator, hooks *extensions.HookManager, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		orchestrator: orchestrator,
		hooks:        hooks,
		logger:       logger,
		slots:        make(map[string]*generationSlot),
	}
}

// Generate runs a generation in the given slot. The slot is typically the
// editor session; two tabs editing different documents never contend.
func (s *GenerationService) Generate(ctx context.Context, slotID string, cmd commands.GenerateOutlineCommand) (*aggregates.Outline, error) {
	genCtx, token := s.claim(ctx, slotID)
	cmd.RequestToken = token

	outline, err := s.orchestrator.Handle(genCtx, cmd)

	if !s.isLatest(slotID, token) {
		// A newer request took the slot while this one ran. Whatever it
		// produced must not reach the caller.
		s.logger.Info("dropping superseded generation",
			zap.String("slot", slotID),
			zap.Uint64("token", token),
		)
		if s.hooks != nil {
			s.hooks.ExecuteAsync(ctx, extensions.HookGenerationSuperseded, cmd)
		}
		return nil, ErrSuperseded
	}

	if err != nil {
		return nil, err
	}
	return outline, nil
}

// claim registers a new attempt in the slot, cancelling the previous one,
// and returns its context and token.
func (s *GenerationService) claim(ctx context.Context, slotID string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slots[slotID]
	if slot == nil {
		slot = &generationSlot{}
		s.slots[slotID] = slot
	}
	if slot.cancel != nil {
		slot.cancel()
	}

	slot.latest++
	genCtx, cancel := context.WithCancel(ctx)
	slot.cancel = cancel

	return genCtx, slot.latest
}

// isLatest reports whether the token still owns its slot
func (s *GenerationService) isLatest(slotID string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.slots[slotID]
	return slot != nil && slot.latest == token
}
