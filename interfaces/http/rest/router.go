package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	querybus "influflow/application/queries/bus"
	"influflow/application/services"
	"influflow/infrastructure/config"
	"influflow/interfaces/http/rest/handlers"
	"influflow/interfaces/http/rest/middleware"
	pkgerrors "influflow/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg           *config.Config
	commandBus    *bus.CommandBus
	queryBus      *querybus.QueryBus
	generation    *services.GenerationService
	reconciler    *services.EditReconciler
	addHandler    *commands.AddChildNodeHandler
	deleteHandler *commands.DeleteNodeHandler
	errorHandler  *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	generation *services.GenerationService,
	reconciler *services.EditReconciler,
	addHandler *commands.AddChildNodeHandler,
	deleteHandler *commands.DeleteNodeHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		commandBus:    commandBus,
		queryBus:      queryBus,
		generation:    generation,
		reconciler:    reconciler,
		addHandler:    addHandler,
		deleteHandler: deleteHandler,
		errorHandler:  errorHandler,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.influflow.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))

		r.Route("/outlines", func(r chi.Router) {
			outlineHandler := handlers.NewOutlineHandler(rt.generation, rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
			r.Post("/generate", outlineHandler.GenerateOutline)
			r.Get("/", outlineHandler.ListOutlines)
			r.Get("/{outlineID}", outlineHandler.GetOutline)
			r.Delete("/{outlineID}", outlineHandler.DeleteOutline)

			sectionHandler := handlers.NewSectionHandler(rt.commandBus, rt.queryBus, rt.reconciler, rt.errorHandler, rt.logger)
			r.Get("/{outlineID}/sections", sectionHandler.GetSections)
			r.Put("/{outlineID}/sections/{sectionID}", sectionHandler.EditSection)
			r.Post("/{outlineID}/tweets/{tweetNumber}/ai-edit", sectionHandler.AIEditTweet)
			r.Put("/{outlineID}/tweets/{tweetNumber}/image", sectionHandler.SetTweetImage)

			mindmapHandler := handlers.NewMindmapHandler(rt.queryBus, rt.commandBus, rt.addHandler, rt.deleteHandler, rt.errorHandler, rt.logger)
			r.Get("/{outlineID}/mindmap", mindmapHandler.GetMindmap)
			r.Post("/{outlineID}/mindmap/nodes", mindmapHandler.AddNode)
			r.Delete("/{outlineID}/mindmap/nodes/{nodeID}", mindmapHandler.DeleteNode)
			r.Patch("/{outlineID}/mindmap/nodes/{nodeID}", mindmapHandler.RenameNode)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
