package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
)

type DuplicateHandler struct {
	log        *logger.Logger
	duplicates services.DuplicateService
}

func NewDuplicateHandler(log *logger.Logger, duplicates services.DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{
		log:        log.With("handler", "DuplicateHandler"),
		duplicates: duplicates,
	}
}

func (h *DuplicateHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	views, err := h.duplicates.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, h.log, "List", err)
		return
	}
	response.RespondOK(c, gin.H{"candidates": views})
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
	Notes      string `json:"notes,omitempty"`
}

func (h *DuplicateHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.duplicates.Resolve(c.Request.Context(), id, req.Resolution, req.Notes)
	if err != nil {
		respondServiceError(c, h.log, "Resolve", err)
		return
	}
	response.RespondOK(c, gin.H{"candidate": view})
}

func (h *DuplicateHandler) Ignore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	// Notes are optional, so an empty body is fine.
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.duplicates.Ignore(c.Request.Context(), id, req.Notes)
	if err != nil {
		respondServiceError(c, h.log, "Ignore", err)
		return
	}
	response.RespondOK(c, gin.H{"candidate": view})
}

func (h *DuplicateHandler) Merge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.duplicates.Merge(c.Request.Context(), id, req.Resolution, req.Notes)
	if err != nil {
		respondServiceError(c, h.log, "Merge", err)
		return
	}
	response.RespondOK(c, gin.H{"candidate": view})
}
