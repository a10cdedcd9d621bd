//go:build !wireinject
// +build !wireinject

package di

import (
	"context"

	"influflow/infrastructure/config"
)

// InitializeContainer creates a fully wired container. Kept in sync with
// the wire provider set by hand; run wire to regenerate if the graph grows.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)
	cloudWatchClient := ProvideCloudWatchClient(awsCfg)

	repo := ProvideOutlineRepository(dynamoClient, cfg, logger)
	publisher := ProvideEventPublisher(eventBridgeClient, cfg, logger)
	generator := ProvideContentGenerator(cfg, logger)
	layoutEngine := ProvideLayoutEngine()
	cache := ProvideListingCache()
	metrics := ProvideMetrics(cloudWatchClient, cfg)
	tracer := ProvideTracer(cfg)
	hooks := ProvideHookManager()
	errorHandler := ProvideErrorHandler(cfg, logger)

	addHandler := ProvideAddChildNodeHandler(repo, publisher, logger)
	deleteHandler := ProvideDeleteNodeHandler(repo, publisher, logger)

	commandBus, err := ProvideCommandBus(repo, publisher, generator, addHandler, deleteHandler, logger)
	if err != nil {
		return nil, err
	}

	queryBus, err := ProvideQueryBus(repo, layoutEngine, cache, metrics, logger)
	if err != nil {
		return nil, err
	}

	orchestrator := ProvideOrchestrator(generator, repo, publisher, hooks, tracer, logger)
	generationService := ProvideGenerationService(orchestrator, hooks, logger)
	reconciler := ProvideEditReconciler(commandBus, cfg, logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		OutlineRepo:       repo,
		Publisher:         publisher,
		Generator:         generator,
		Layout:            layoutEngine,
		Cache:             cache,
		Metrics:           metrics,
		Tracer:            tracer,
		Hooks:             hooks,
		CommandBus:        commandBus,
		QueryBus:          queryBus,
		GenerationService: generationService,
		Reconciler:        reconciler,
		AddNodeHandler:    addHandler,
		DeleteNodeHandler: deleteHandler,
		ErrorHandler:      errorHandler,
	}, nil
}

// Close flushes pending work before shutdown: queued edits dispatch
// immediately and buffered metrics drain.
func (c *Container) Close() {
	c.Reconciler.Close()
	c.Metrics.Close()

	// Sync on stderr fails on some platforms; nothing useful to do about it.
	_ = c.Logger.Sync()
}
