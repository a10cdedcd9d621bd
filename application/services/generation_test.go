package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/handlers"
	"influflow/application/ports"
	"influflow/domain/core/entities"
	"influflow/infrastructure/persistence/memory"
	"influflow/pkg/extensions"
	"influflow/pkg/observability"
)

// blockingGenerator returns a canned outline. The first blockCalls calls
// wait for the release signal or context cancellation before returning.
// With ignoreCancel set a blocked call waits for release alone and then
// resolves with a full payload, like a backend that never observes
// cancellation.
type blockingGenerator struct {
	release      chan struct{}
	blockCalls   int64
	ignoreCancel bool
	calls        atomic.Int64
}

func (g *blockingGenerator) GenerateOutline(ctx context.Context, req ports.GenerationRequest) (*ports.GeneratedOutline, error) {
	n := g.calls.Add(1)
	if g.release != nil && n <= g.blockCalls {
		if g.ignoreCancel {
			<-g.release
		} else {
			select {
			case <-g.release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return &ports.GeneratedOutline{
		Topic: req.Topic,
		Groups: []entities.OutlineGroup{
			{Title: "Part one", Tweets: []entities.Tweet{{TweetNumber: 1, Content: "generated for " + req.Topic}}},
		},
	}, nil
}

func (g *blockingGenerator) EditTweet(_ context.Context, req ports.TweetEditRequest) (string, error) {
	return "rewritten: " + req.Content, nil
}

func newGenerationService(gen ports.ContentGenerator) (*GenerationService, *memory.OutlineRepository) {
	repo := memory.NewOutlineRepository()
	orchestrator := handlers.NewGenerateOutlineOrchestrator(
		gen, repo, nil, extensions.NewHookManager(),
		observability.NewTracer("test"), zap.NewNop(),
	)
	return NewGenerationService(orchestrator, extensions.NewHookManager(), zap.NewNop()), repo
}

func generateCmd(topic string) commands.GenerateOutlineCommand {
	return commands.GenerateOutlineCommand{
		UserID: "u1",
		Topic:  topic,
		Format: "thread",
	}
}

func TestGenerationService_SingleRequest(t *testing.T) {
	svc, repo := newGenerationService(&blockingGenerator{})

	outline, err := svc.Generate(context.Background(), "slot-1", generateCmd("Go concurrency"))
	require.NoError(t, err)
	assert.Equal(t, "Go concurrency", outline.Topic())

	saved, err := repo.GetByID(context.Background(), outline.ID())
	require.NoError(t, err)
	assert.Equal(t, outline.ID().String(), saved.ID().String())
}

func TestGenerationService_LastRequestWins(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{}), blockCalls: 1}
	svc, _ := newGenerationService(gen)

	type result struct {
		topic string
		err   error
	}
	results := make(chan result, 1)

	go func() {
		o, err := svc.Generate(context.Background(), "slot-1", generateCmd("first topic"))
		topic := ""
		if o != nil {
			topic = o.Topic()
		}
		results <- result{topic: topic, err: err}
	}()

	// Wait for the first request to be in flight
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	// The second request claims the slot; the first must come back
	// superseded even though its generator call gets released.
	second, err := svc.Generate(context.Background(), "slot-1", generateCmd("second topic"))
	close(gen.release)

	require.NoError(t, err)
	assert.Equal(t, "second topic", second.Topic())

	first := <-results
	assert.ErrorIs(t, first.err, ErrSuperseded)
	assert.Empty(t, first.topic)
}

func TestGenerationService_SlotsAreIndependent(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{}), blockCalls: 1}
	svc, _ := newGenerationService(gen)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "slot-a", generateCmd("topic a"))
		done <- err
	}()
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	// A request in another slot does not supersede slot-a
	close(gen.release)
	outline, err := svc.Generate(context.Background(), "slot-b", generateCmd("topic b"))
	require.NoError(t, err)
	assert.Equal(t, "topic b", outline.Topic())

	assert.NoError(t, <-done)
}

func TestGenerationService_StaleResolutionNeverPersisted(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{}), blockCalls: 1, ignoreCancel: true}
	svc, repo := newGenerationService(gen)

	errs := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "slot-1", generateCmd("stale topic"))
		errs <- err
	}()
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	fresh, err := svc.Generate(context.Background(), "slot-1", generateCmd("fresh topic"))
	require.NoError(t, err)
	assert.Equal(t, "fresh topic", fresh.Topic())

	// The stale generator now resolves with a full payload, well after
	// losing the slot.
	close(gen.release)
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded request never returned")
	}

	outlines, err := repo.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, outlines, 1, "stale resolution must be dropped, not stored")
	assert.Equal(t, "fresh topic", outlines[0].Topic())
}

func TestGenerationService_CancelsInFlightRequest(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{}), blockCalls: 1}
	svc, _ := newGenerationService(gen)

	errs := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), "slot-1", generateCmd("stale"))
		errs <- err
	}()
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, time.Millisecond)

	// Claiming the slot cancels the in-flight generator context, so the
	// first call unblocks without the release signal ever firing.
	fresh, err := svc.Generate(context.Background(), "slot-1", generateCmd("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.Topic())

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded request never returned")
	}
}
