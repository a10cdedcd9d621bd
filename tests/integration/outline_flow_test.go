package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	commandhandlers "influflow/application/commands/handlers"
	"influflow/application/ports"
	"influflow/application/queries"
	"influflow/application/services"
	"influflow/domain/core/valueobjects"
	"influflow/domain/markdown"
	"influflow/domain/mindmap"
	"influflow/infrastructure/generation"
	"influflow/infrastructure/layout"
	"influflow/infrastructure/persistence/memory"
	pkgerrors "influflow/pkg/errors"
	"influflow/pkg/extensions"
	"influflow/pkg/observability"
)

// testEnv wires the full command and query path against the in-memory
// repository and the template generator.
type testEnv struct {
	repo       ports.OutlineRepository
	commandBus *bus.CommandBus
	generation *services.GenerationService
	reconciler *services.EditReconciler
	sections   *queries.GetSectionsHandler
	mindmap    *queries.GetMindmapHandler
	outlines   *queries.ListOutlinesHandler
	addNode    *commands.AddChildNodeHandler
	deleteNode *commands.DeleteNodeHandler
}

func mustOutlineID(t *testing.T, id string) valueobjects.OutlineID {
	t.Helper()
	oid, err := valueobjects.NewOutlineIDFromString(id)
	require.NoError(t, err)
	return oid
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := memory.NewOutlineRepository()
	generator := generation.NewStaticGenerator()
	hooks := extensions.NewHookManager()
	tracer := observability.NewTracer("test")

	commandBus := bus.NewCommandBus()
	register := func(cmd bus.Command, handler bus.CommandHandler) {
		require.NoError(t, commandBus.Register(cmd, handler))
	}

	editHandler := commands.NewEditTweetContentHandler(repo, nil, logger)
	register(commands.EditTweetContentCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			return editHandler.Handle(ctx, cmd.(commands.EditTweetContentCommand))
		}))

	renameHandler := commands.NewRenameNodeHandler(repo, nil, logger)
	register(commands.RenameNodeCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			return renameHandler.Handle(ctx, cmd.(commands.RenameNodeCommand))
		}))

	aiEditHandler := commands.NewApplyAIEditHandler(repo, generator, nil, logger)
	register(commands.ApplyAIEditCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			return aiEditHandler.Handle(ctx, cmd.(commands.ApplyAIEditCommand))
		}))

	deleteOutlineHandler := commands.NewDeleteOutlineHandler(repo, nil, logger)
	register(commands.DeleteOutlineCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			return deleteOutlineHandler.Handle(ctx, cmd.(commands.DeleteOutlineCommand))
		}))

	orchestrator := commandhandlers.NewGenerateOutlineOrchestrator(generator, repo, nil, hooks, tracer, logger)

	return &testEnv{
		repo:       repo,
		commandBus: commandBus,
		generation: services.NewGenerationService(orchestrator, hooks, logger),
		reconciler: services.NewEditReconcilerWithInterval(commandBus, logger, 10*time.Millisecond),
		sections:   queries.NewGetSectionsHandler(repo, logger),
		mindmap:    queries.NewGetMindmapHandler(repo, layout.NewTieredEngine(), logger),
		outlines:   queries.NewListOutlinesHandler(repo, logger),
		addNode:    commands.NewAddChildNodeHandler(repo, nil, logger),
		deleteNode: commands.NewDeleteNodeHandler(repo, nil, logger),
	}
}

func (env *testEnv) generate(t *testing.T, userID, topic string) string {
	t.Helper()

	outline, err := env.generation.Generate(context.Background(), userID, commands.GenerateOutlineCommand{
		UserID: userID,
		Topic:  topic,
		Format: "thread",
	})
	require.NoError(t, err)
	return outline.ID().String()
}

func TestOutlineFlow_GenerateAndRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Go concurrency patterns")

	list, err := env.outlines.Handle(ctx, queries.ListOutlinesQuery{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, list.Outlines, 1)
	assert.Equal(t, "Go concurrency patterns", list.Outlines[0].Topic)

	view, err := env.sections.Handle(ctx, queries.GetSectionsQuery{OutlineID: id, UserID: "user-1"})
	require.NoError(t, err)

	var tweets, groups int
	for _, s := range view.Sections {
		switch s.Type {
		case markdown.SectionTweet:
			tweets++
		case markdown.SectionGroup:
			groups++
		}
	}
	assert.Equal(t, 6, tweets)
	assert.Equal(t, 3, groups)

	mm, err := env.mindmap.Handle(ctx, queries.GetMindmapQuery{OutlineID: id, UserID: "user-1"})
	require.NoError(t, err)
	// 1 root + 3 groups + 6 tweets
	assert.Len(t, mm.Nodes, 10)
	assert.Len(t, mm.Edges, 9)
}

func TestOutlineFlow_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	_, err := env.sections.Handle(ctx, queries.GetSectionsQuery{OutlineID: id, UserID: "user-2"})
	assert.Error(t, err)
}

func TestOutlineFlow_SectionEditLandsInOutline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	view, err := env.sections.Handle(ctx, queries.GetSectionsQuery{OutlineID: id, UserID: "user-1"})
	require.NoError(t, err)

	var tweetSection markdown.Section
	for _, s := range view.Sections {
		if s.Type == markdown.SectionTweet {
			tweetSection = s.Section
			break
		}
	}
	require.NotEmpty(t, tweetSection.ID)

	require.NoError(t, env.reconciler.ReconcileSection(id, "user-1", tweetSection, "rewritten&nbsp;content"))
	env.reconciler.Flush()

	outline, err := env.repo.GetByID(ctx, mustOutlineID(t, id))
	require.NoError(t, err)

	n, ok := tweetSection.TweetID.Int()
	require.True(t, ok)
	tweet, found := outline.FindTweet(n)
	require.True(t, found)
	assert.Equal(t, "rewritten content", tweet.Content)
}

func TestOutlineFlow_AIEditRewritesTweet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	err := env.commandBus.Send(ctx, commands.ApplyAIEditCommand{
		OutlineID:   id,
		UserID:      "user-1",
		TweetNumber: 1,
		Instruction: "make it punchier",
	})
	require.NoError(t, err)

	outline, err := env.repo.GetByID(ctx, mustOutlineID(t, id))
	require.NoError(t, err)
	tweet, found := outline.FindTweet(1)
	require.True(t, found)
	assert.Contains(t, tweet.Content, "make it punchier")
}

func TestOutlineFlow_MindmapStructuralEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	added, err := env.addNode.Handle(ctx, commands.AddChildNodeCommand{
		OutlineID:    id,
		UserID:       "user-1",
		ParentNodeID: mindmap.RootNodeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "group-3", added.Node.ID)

	err = env.commandBus.Send(ctx, commands.RenameNodeCommand{
		OutlineID: id,
		UserID:    "user-1",
		NodeID:    added.Node.ID,
		Label:     "Closing thoughts",
	})
	require.NoError(t, err)

	outline, err := env.repo.GetByID(ctx, mustOutlineID(t, id))
	require.NoError(t, err)
	groups := outline.Groups()
	require.Len(t, groups, 4)
	assert.Equal(t, "Closing thoughts", groups[3].Title)

	removed, err := env.deleteNode.Handle(ctx, commands.DeleteNodeCommand{
		OutlineID: id,
		UserID:    "user-1",
		NodeID:    "group-0",
	})
	require.NoError(t, err)
	// The group plus its two tweets.
	assert.Len(t, removed.RemovedNodeIDs, 3)

	outline, err = env.repo.GetByID(ctx, mustOutlineID(t, id))
	require.NoError(t, err)
	assert.Equal(t, 3, outline.GroupCount())
}

func TestOutlineFlow_TweetNumbersStayRetiredAcrossRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	// Delete the tweet carrying the highest number, then add a new one in
	// a separate request. Each handler does its own load-mutate-save, so
	// the retired number has to survive the repository round trip.
	removed, err := env.deleteNode.Handle(ctx, commands.DeleteNodeCommand{
		OutlineID: id,
		UserID:    "user-1",
		NodeID:    "tweet-2-6-L3",
	})
	require.NoError(t, err)
	require.Contains(t, removed.RemovedNodeIDs, "tweet-2-6-L3")

	added, err := env.addNode.Handle(ctx, commands.AddChildNodeCommand{
		OutlineID:    id,
		UserID:       "user-1",
		ParentNodeID: "group-0",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, added.Node.Data.TweetID, "deleted numbers are never re-minted")
}

func TestOutlineFlow_LastRequestWins(t *testing.T) {
	env := newTestEnv(t)

	// Sequential requests on the same slot both succeed; each new request
	// supersedes only in-flight ones.
	first := env.generate(t, "user-1", "First topic")
	second := env.generate(t, "user-1", "Second topic")
	assert.NotEqual(t, first, second)

	list, err := env.outlines.Handle(context.Background(), queries.ListOutlinesQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, list.Outlines, 2)
}

func TestOutlineFlow_DeleteOutline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.generate(t, "user-1", "Topic")

	require.NoError(t, env.commandBus.Send(ctx, commands.DeleteOutlineCommand{
		OutlineID: id,
		UserID:    "user-1",
	}))

	_, err := env.repo.GetByID(ctx, mustOutlineID(t, id))
	assert.True(t, pkgerrors.IsNotFound(err))
}
