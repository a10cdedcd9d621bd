package di

import (
	"go.uber.org/zap"

	"github.com/google/wire"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/application/ports"
	querybus "influflow/application/queries/bus"
	"influflow/application/services"
	"influflow/infrastructure/config"
	pkgerrors "influflow/pkg/errors"
	"influflow/pkg/extensions"
	"influflow/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *zap.Logger
	OutlineRepo       ports.OutlineRepository
	Publisher         ports.EventPublisher
	Generator         ports.ContentGenerator
	Layout            ports.LayoutEngine
	Cache             ports.Cache
	Metrics           *observability.Metrics
	Tracer            *observability.Tracer
	Hooks             *extensions.HookManager
	CommandBus        *bus.CommandBus
	QueryBus          *querybus.QueryBus
	GenerationService *services.GenerationService
	Reconciler        *services.EditReconciler
	AddNodeHandler    *commands.AddChildNodeHandler
	DeleteNodeHandler *commands.DeleteNodeHandler
	ErrorHandler      *pkgerrors.ErrorHandler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideOutlineRepository,
	ProvideEventPublisher,
	ProvideContentGenerator,
	ProvideLayoutEngine,
	ProvideListingCache,
	ProvideMetrics,
	ProvideTracer,
	ProvideHookManager,
	ProvideErrorHandler,
	ProvideOrchestrator,
	ProvideGenerationService,
	ProvideEditReconciler,
	ProvideAddChildNodeHandler,
	ProvideDeleteNodeHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)
