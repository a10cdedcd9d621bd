package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/application/queries"
	querybus "influflow/application/queries/bus"
	"influflow/pkg/auth"
	"influflow/pkg/common"
	pkgerrors "influflow/pkg/errors"
	"influflow/pkg/utils"
)

// MindmapHandler serves the mind-map projection of an outline and applies
// structural edits made through it.
type MindmapHandler struct {
	queryBus      *querybus.QueryBus
	commandBus    *bus.CommandBus
	addHandler    *commands.AddChildNodeHandler
	deleteHandler *commands.DeleteNodeHandler
	errorHandler  *pkgerrors.ErrorHandler
	logger        *zap.Logger
}

// NewMindmapHandler creates a new mindmap handler
func NewMindmapHandler(
	queryBus *querybus.QueryBus,
	commandBus *bus.CommandBus,
	addHandler *commands.AddChildNodeHandler,
	deleteHandler *commands.DeleteNodeHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MindmapHandler {
	return &MindmapHandler{
		queryBus:      queryBus,
		commandBus:    commandBus,
		addHandler:    addHandler,
		deleteHandler: deleteHandler,
		errorHandler:  errorHandler,
		logger:        logger,
	}
}

// GetMindmap handles GET /outlines/{outlineID}/mindmap
func (h *MindmapHandler) GetMindmap(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMindmapQuery{
		OutlineID: chi.URLParam(r, "outlineID"),
		UserID:    user.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// AddNodeRequest is the request body for adding a child node
type AddNodeRequest struct {
	ParentNodeID string `json:"parent_node_id" validate:"required"`
}

// AddNode handles POST /outlines/{outlineID}/mindmap/nodes. A child of the
// topic root becomes a new outline point; a child of anything deeper
// becomes a new tweet.
func (h *MindmapHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req AddNodeRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.AddChildNodeCommand{
		OutlineID:    chi.URLParam(r, "outlineID"),
		UserID:       user.UserID,
		ParentNodeID: req.ParentNodeID,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.addHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}

// DeleteNode handles DELETE /outlines/{outlineID}/mindmap/nodes/{nodeID}.
// Deleting a node removes its whole subtree; the topic root cannot be
// deleted.
func (h *MindmapHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.DeleteNodeCommand{
		OutlineID: chi.URLParam(r, "outlineID"),
		UserID:    user.UserID,
		NodeID:    chi.URLParam(r, "nodeID"),
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.deleteHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RenameNodeRequest is the request body for renaming a node
type RenameNodeRequest struct {
	Label string `json:"label" validate:"required,min=1,max=200"`
}

// RenameNode handles PATCH /outlines/{outlineID}/mindmap/nodes/{nodeID}.
// The node id decides what gets renamed: the topic, a group title, or a
// tweet title.
func (h *MindmapHandler) RenameNode(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req RenameNodeRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cmd := commands.RenameNodeCommand{
		OutlineID: chi.URLParam(r, "outlineID"),
		UserID:    user.UserID,
		NodeID:    chi.URLParam(r, "nodeID"),
		Label:     req.Label,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"renamed": true,
		"node_id": cmd.NodeID,
	})
}
