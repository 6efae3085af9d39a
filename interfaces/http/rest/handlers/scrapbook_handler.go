// Package handlers implements the REST endpoints of the scrapbook API.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"keepsake-backend/application/services"
	"keepsake-backend/pkg/common"
	apperrors "keepsake-backend/pkg/errors"
	"keepsake-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Static response messages.
const (
	msgMissingFields   = "Missing required fields"
	msgContentRequired = "Content is required"
	msgTypeRequired    = "Interaction type is required"
	msgInvalidBody     = "Invalid request body"
	msgStoryUpdated    = "Story updated successfully"
	msgSurpriseUpdated = "Surprise updated successfully"
	msgInternalError   = "Internal server error"
)

// ScrapbookHandler handles all scrapbook HTTP requests.
type ScrapbookHandler struct {
	service *services.ScrapbookService
	logger  *zap.Logger
}

// NewScrapbookHandler creates a new scrapbook handler.
func NewScrapbookHandler(service *services.ScrapbookService, logger *zap.Logger) *ScrapbookHandler {
	return &ScrapbookHandler{
		service: service,
		logger:  logger,
	}
}

// Request bodies use pointer fields for required values: a key that is
// present but empty is accepted, only an absent key fails validation.

// AddMomentRequest is the body for POST /api/moments.
type AddMomentRequest struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Emoji       string  `json:"emoji,omitempty"`
}

// AddAdorationRequest is the body for POST /api/adoration.
type AddAdorationRequest struct {
	Label       *string `json:"label" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

// UpdateContentRequest is the body for PUT /api/story and PUT /api/surprise.
type UpdateContentRequest struct {
	Content *string `json:"content" validate:"required"`
}

// RecordInteractionRequest is the body for POST /api/interactions.
type RecordInteractionRequest struct {
	Type *string                `json:"type" validate:"required"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// GetMemories handles GET /api/memories.
func (h *ScrapbookHandler) GetMemories(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Document())
}

// GetMoments handles GET /api/moments.
func (h *ScrapbookHandler) GetMoments(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Moments())
}

// AddMoment handles POST /api/moments.
func (h *ScrapbookHandler) AddMoment(w http.ResponseWriter, r *http.Request) {
	var req AddMomentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	moment, err := h.service.AddMoment(*req.Title, *req.Description, req.Emoji)
	if err != nil {
		h.logger.Error("Failed to add moment", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondData(w, http.StatusCreated, moment)
}

// GetAdoration handles GET /api/adoration.
func (h *ScrapbookHandler) GetAdoration(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.AdorationItems())
}

// AddAdoration handles POST /api/adoration.
func (h *ScrapbookHandler) AddAdoration(w http.ResponseWriter, r *http.Request) {
	var req AddAdorationRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	item, err := h.service.AddAdorationItem(*req.Label, *req.Description)
	if err != nil {
		h.logger.Error("Failed to add adoration item", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondData(w, http.StatusCreated, item)
}

// GetStory handles GET /api/story.
func (h *ScrapbookHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Story())
}

// UpdateStory handles PUT /api/story.
func (h *ScrapbookHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgContentRequired)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgContentRequired)
		return
	}

	if err := h.service.UpdateStory(*req.Content); err != nil {
		h.logger.Error("Failed to update story", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondMessage(w, http.StatusOK, msgStoryUpdated)
}

// GetSurprise handles GET /api/surprise. The lock flag is advisory
// metadata; content is returned regardless.
func (h *ScrapbookHandler) GetSurprise(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Surprise())
}

// UpdateSurprise handles PUT /api/surprise.
func (h *ScrapbookHandler) UpdateSurprise(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgContentRequired)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgContentRequired)
		return
	}

	if err := h.service.UpdateSurprise(*req.Content); err != nil {
		h.logger.Error("Failed to update surprise", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondMessage(w, http.StatusOK, msgSurpriseUpdated)
}

// RecordInteraction handles POST /api/interactions.
func (h *ScrapbookHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req RecordInteractionRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgTypeRequired)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, msgTypeRequired)
		return
	}

	interaction, err := h.service.RecordInteraction(*req.Type, req.Data)
	if err != nil {
		h.logger.Error("Failed to record interaction", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondData(w, http.StatusCreated, interaction)
}

// GetAnalytics handles GET /api/analytics.
func (h *ScrapbookHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Analytics())
}

// GetTheme handles GET /api/theme.
func (h *ScrapbookHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	common.RespondData(w, http.StatusOK, h.service.Theme())
}

// UpdateTheme handles PUT /api/theme. An empty patch is a no-op that
// returns the current theme.
func (h *ScrapbookHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var patch map[string]string
	// An absent body is treated like an empty patch.
	if err := common.ParseJSONBody(w, r, &patch, maxBodyBytes); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if len(patch) == 0 {
		common.RespondData(w, http.StatusOK, h.service.Theme())
		return
	}

	theme, err := h.service.UpdateTheme(patch)
	if err != nil {
		h.logger.Error("Failed to update theme", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatus(err), msgInternalError)
		return
	}
	common.RespondData(w, http.StatusOK, theme)
}
