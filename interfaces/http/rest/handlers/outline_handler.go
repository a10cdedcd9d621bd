package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/application/queries"
	querybus "influflow/application/queries/bus"
	"influflow/application/services"
	"influflow/pkg/auth"
	"influflow/pkg/common"
	pkgerrors "influflow/pkg/errors"
	"influflow/pkg/utils"
)

// OutlineHandler handles outline lifecycle requests
type OutlineHandler struct {
	generation   *services.GenerationService
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewOutlineHandler creates a new outline handler
func NewOutlineHandler(
	generation *services.GenerationService,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *OutlineHandler {
	return &OutlineHandler{
		generation:   generation,
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GenerateOutlineRequest is the request body for generating an outline
type GenerateOutlineRequest struct {
	Topic        string `json:"topic" validate:"required,min=1,max=300"`
	Format       string `json:"format,omitempty" validate:"omitempty,oneof=thread longform"`
	Instructions string `json:"instructions,omitempty" validate:"omitempty,max=2000"`
}

// GenerateOutline handles POST /outlines/generate. Each user holds one
// generation slot: sending a new request while one is in flight cancels
// the old one.
func (h *OutlineHandler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req GenerateOutlineRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.Format == "" {
		req.Format = "thread"
	}

	cmd := commands.GenerateOutlineCommand{
		UserID:       user.UserID,
		Topic:        req.Topic,
		Format:       req.Format,
		Instructions: req.Instructions,
	}

	outline, err := h.generation.Generate(r.Context(), user.UserID, cmd)
	if err != nil {
		if errors.Is(err, services.ErrSuperseded) {
			h.errorHandler.Handle(w, r, pkgerrors.ErrGenerationSuperseded)
			return
		}
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, queries.NewOutlineView(outline))
}

// GetOutline handles GET /outlines/{outlineID}
func (h *OutlineHandler) GetOutline(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetOutlineQuery{
		OutlineID: chi.URLParam(r, "outlineID"),
		UserID:    user.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListOutlines handles GET /outlines
func (h *OutlineHandler) ListOutlines(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListOutlinesQuery{
		UserID:     user.UserID,
		Pagination: common.ExtractPaginationParams(r),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteOutline handles DELETE /outlines/{outlineID}
func (h *OutlineHandler) DeleteOutline(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.DeleteOutlineCommand{
		OutlineID: chi.URLParam(r, "outlineID"),
		UserID:    user.UserID,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"id":      cmd.OutlineID,
	})
}
