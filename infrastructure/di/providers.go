package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	commandhandlers "influflow/application/commands/handlers"
	"influflow/application/ports"
	"influflow/application/queries"
	querybus "influflow/application/queries/bus"
	"influflow/application/services"
	"influflow/infrastructure/config"
	"influflow/infrastructure/generation"
	"influflow/infrastructure/layout"
	"influflow/infrastructure/messaging/eventbridge"
	"influflow/infrastructure/persistence/dynamodb"
	"influflow/infrastructure/persistence/memory"
	pkgerrors "influflow/pkg/errors"
	"influflow/pkg/extensions"
	"influflow/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideOutlineRepository picks the persistence backend. Production and
// Lambda always run on DynamoDB; local development falls back to the
// in-memory store unless a table is configured.
func ProvideOutlineRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.OutlineRepository {
	if cfg.IsDevelopment() && cfg.DynamoDBTable == "" {
		return memory.NewOutlineRepository()
	}
	return dynamodb.NewOutlineRepository(client, cfg.DynamoDBTable, cfg.UserIndexName, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideContentGenerator picks the generation backend. Without a
// configured endpoint the deterministic template generator is used, which
// keeps local development working offline.
func ProvideContentGenerator(cfg *config.Config, logger *zap.Logger) ports.ContentGenerator {
	if cfg.GeneratorEndpoint == "" {
		return generation.NewStaticGenerator()
	}
	return generation.NewHTTPGenerator(cfg.GeneratorEndpoint, cfg.GeneratorAPIKey, logger)
}

// ProvideLayoutEngine creates the mindmap layout engine
func ProvideLayoutEngine() ports.LayoutEngine {
	return layout.NewTieredEngine()
}

// ProvideMetrics creates the CloudWatch metrics sink. With metrics
// disabled the sink is constructed without a client and drops everything.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("InfluFlow/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("influflow")
}

// ProvideHookManager creates the extension hook manager
func ProvideHookManager() *extensions.HookManager {
	return extensions.NewHookManager()
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideListingCache creates the process-local read-model cache
func ProvideListingCache() ports.Cache {
	return NewListingCache()
}

// ProvideOrchestrator creates the outline generation orchestrator
func ProvideOrchestrator(
	generator ports.ContentGenerator,
	repo ports.OutlineRepository,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *commandhandlers.GenerateOutlineOrchestrator {
	return commandhandlers.NewGenerateOutlineOrchestrator(generator, repo, publisher, hooks, tracer, logger)
}

// ProvideGenerationService creates the last-request-wins generation service
func ProvideGenerationService(
	orchestrator *commandhandlers.GenerateOutlineOrchestrator,
	hooks *extensions.HookManager,
	logger *zap.Logger,
) *services.GenerationService {
	return services.NewGenerationService(orchestrator, hooks, logger)
}

// ProvideEditReconciler creates the debounced edit reconciler, dispatching
// coalesced edits through the command bus.
func ProvideEditReconciler(commandBus *bus.CommandBus, cfg *config.Config, logger *zap.Logger) *services.EditReconciler {
	return services.NewEditReconcilerWithInterval(commandBus, logger, cfg.EditDebounce)
}

// ProvideAddChildNodeHandler creates the concrete add-node handler. The
// REST layer holds it directly because it returns the created node.
func ProvideAddChildNodeHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *commands.AddChildNodeHandler {
	return commands.NewAddChildNodeHandler(repo, publisher, logger)
}

// ProvideDeleteNodeHandler creates the concrete delete-node handler
func ProvideDeleteNodeHandler(repo ports.OutlineRepository, publisher ports.EventPublisher, logger *zap.Logger) *commands.DeleteNodeHandler {
	return commands.NewDeleteNodeHandler(repo, publisher, logger)
}

// ProvideCommandBus creates the command bus with all handlers registered
// behind the validation and logging pipeline.
func ProvideCommandBus(
	repo ports.OutlineRepository,
	publisher ports.EventPublisher,
	generator ports.ContentGenerator,
	addHandler *commands.AddChildNodeHandler,
	deleteHandler *commands.DeleteNodeHandler,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(
		bus.LoggingMiddleware(logger),
		bus.ValidationMiddleware(),
	)

	editHandler := commands.NewEditTweetContentHandler(repo, publisher, logger)
	if err := commandBus.Register(commands.EditTweetContentCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.EditTweetContentCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return editHandler.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	renameHandler := commands.NewRenameNodeHandler(repo, publisher, logger)
	if err := commandBus.Register(commands.RenameNodeCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.RenameNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return renameHandler.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	aiEditHandler := commands.NewApplyAIEditHandler(repo, generator, publisher, logger)
	if err := commandBus.Register(commands.ApplyAIEditCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.ApplyAIEditCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return aiEditHandler.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	imageHandler := commands.NewSetTweetImageHandler(repo, publisher, logger)
	if err := commandBus.Register(commands.SetTweetImageCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.SetTweetImageCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return imageHandler.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	deleteOutlineHandler := commands.NewDeleteOutlineHandler(repo, publisher, logger)
	if err := commandBus.Register(commands.DeleteOutlineCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.DeleteOutlineCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return deleteOutlineHandler.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	// Structural edits are also reachable through the bus; callers that
	// need the result hold the concrete handlers instead.
	if err := commandBus.Register(commands.AddChildNodeCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.AddChildNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := addHandler.Handle(ctx, c)
			return err
		}))); err != nil {
		return nil, err
	}

	if err := commandBus.Register(commands.DeleteNodeCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) error {
			c, ok := cmd.(commands.DeleteNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := deleteHandler.Handle(ctx, c)
			return err
		}))); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// busMetricsAdapter bridges the CloudWatch sink to the query bus's
// metrics interface.
type busMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a *busMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a *busMetricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// ProvideQueryBus creates the query bus with all read models registered.
// The outline list is briefly cached; section and mindmap views are
// rebuilt on every request so edits are visible immediately.
func ProvideQueryBus(
	repo ports.OutlineRepository,
	layoutEngine ports.LayoutEngine,
	cache ports.Cache,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	metricsMw := querybus.NewMetricsMiddleware(&busMetricsAdapter{metrics})

	getOutline := queries.NewGetOutlineHandler(repo, logger)
	if err := queryBus.Register(queries.GetOutlineQuery{}, metricsMw.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return getOutline.Handle(ctx, q.(queries.GetOutlineQuery))
		}))); err != nil {
		return nil, err
	}

	getSections := queries.NewGetSectionsHandler(repo, logger)
	if err := queryBus.Register(queries.GetSectionsQuery{}, metricsMw.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return getSections.Handle(ctx, q.(queries.GetSectionsQuery))
		}))); err != nil {
		return nil, err
	}

	getMindmap := queries.NewGetMindmapHandler(repo, layoutEngine, logger)
	if err := queryBus.Register(queries.GetMindmapQuery{}, metricsMw.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return getMindmap.Handle(ctx, q.(queries.GetMindmapQuery))
		}))); err != nil {
		return nil, err
	}

	listOutlines := queries.NewListOutlinesHandler(repo, logger)
	cachingMw := querybus.NewCachingMiddleware(cache, 5)
	if err := queryBus.Register(queries.ListOutlinesQuery{}, metricsMw.Wrap(cachingMw.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return listOutlines.Handle(ctx, q.(queries.ListOutlinesQuery))
		})))); err != nil {
		return nil, err
	}

	return queryBus, nil
}
