package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/application/queries"
	querybus "influflow/application/queries/bus"
	"influflow/application/services"
	"influflow/domain/core/valueobjects"
	"influflow/pkg/auth"
	"influflow/pkg/common"
	pkgerrors "influflow/pkg/errors"
)

// SectionHandler serves the rendered section view of an outline and routes
// editor changes back into it.
type SectionHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	reconciler   *services.EditReconciler
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	reconciler *services.EditReconciler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *SectionHandler {
	return &SectionHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		reconciler:   reconciler,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetSections handles GET /outlines/{outlineID}/sections. The editor's
// interaction state arrives as query parameters; ids may be tweet numbers,
// section ids, or group references.
func (h *SectionHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	q := queries.GetSectionsQuery{
		OutlineID:            chi.URLParam(r, "outlineID"),
		UserID:               user.UserID,
		HighlightedSectionID: flexParam(r, "highlighted"),
		HoveredID:            flexParam(r, "hovered"),
		EditingID:            flexParam(r, "editing"),
		SelectedID:           flexParam(r, "selected"),
		LoadingID:            flexParam(r, "loading"),
	}
	if raw := r.URL.Query().Get("generating_images"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.GeneratingImageIDs = append(q.GeneratingImageIDs, valueobjects.NewFlexID(part))
			}
		}
	}

	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// EditSectionRequest is the request body for editing a section's text
type EditSectionRequest struct {
	Text string `json:"text"`
}

// EditSection handles PUT /outlines/{outlineID}/sections/{sectionID}.
// Edits are debounced: rapid keystrokes on the same section coalesce into
// one write, so the response is 202 rather than 200.
func (h *SectionHandler) EditSection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	outlineID := chi.URLParam(r, "outlineID")
	sectionID := chi.URLParam(r, "sectionID")

	var req EditSectionRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetSectionsQuery{
		OutlineID: outlineID,
		UserID:    user.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	view, ok := result.(*queries.SectionsView)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "unexpected query result")
		return
	}

	for _, s := range view.Sections {
		if s.ID != sectionID {
			continue
		}
		if err := h.reconciler.ReconcileSection(outlineID, user.UserID, s.Section, req.Text); err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		common.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
			"accepted":   true,
			"section_id": sectionID,
		})
		return
	}

	h.errorHandler.Handle(w, r, pkgerrors.ErrTweetNotFound.WithDetail("section_id", sectionID))
}

// AIEditRequest is the request body for an AI-assisted tweet rewrite
type AIEditRequest struct {
	Instruction string `json:"instruction" validate:"required,max=2000"`
}

// AIEditTweet handles POST /outlines/{outlineID}/tweets/{tweetNumber}/ai-edit
func (h *SectionHandler) AIEditTweet(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	tweetNumber, err := strconv.Atoi(chi.URLParam(r, "tweetNumber"))
	if err != nil || tweetNumber < 1 {
		common.RespondError(w, http.StatusBadRequest, "INVALID_TWEET_NUMBER", "Tweet number must be a positive integer")
		return
	}

	var req AIEditRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	cmd := commands.ApplyAIEditCommand{
		OutlineID:   chi.URLParam(r, "outlineID"),
		UserID:      user.UserID,
		TweetNumber: tweetNumber,
		Instruction: req.Instruction,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"applied":      true,
		"tweet_number": tweetNumber,
	})
}

// SetImageRequest is the request body for attaching an image to a tweet
type SetImageRequest struct {
	ImageURL string `json:"image_url"`
}

// SetTweetImage handles PUT /outlines/{outlineID}/tweets/{tweetNumber}/image.
// An empty URL clears the image.
func (h *SectionHandler) SetTweetImage(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	tweetNumber, err := strconv.Atoi(chi.URLParam(r, "tweetNumber"))
	if err != nil || tweetNumber < 1 {
		common.RespondError(w, http.StatusBadRequest, "INVALID_TWEET_NUMBER", "Tweet number must be a positive integer")
		return
	}

	var req SetImageRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	cmd := commands.SetTweetImageCommand{
		OutlineID:   chi.URLParam(r, "outlineID"),
		UserID:      user.UserID,
		TweetNumber: tweetNumber,
		ImageURL:    req.ImageURL,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"updated":      true,
		"tweet_number": tweetNumber,
	})
}

func flexParam(r *http.Request, name string) valueobjects.FlexID {
	return valueobjects.NewFlexID(r.URL.Query().Get(name))
}
