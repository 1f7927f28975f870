package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
)

type ActionHandler struct {
	log           *logger.Logger
	actionService services.ActionService
}

func NewActionHandler(log *logger.Logger, actionService services.ActionService) *ActionHandler {
	return &ActionHandler{
		log:           log.With("handler", "ActionHandler"),
		actionService: actionService,
	}
}

func (h *ActionHandler) Create(c *gin.Context) {
	var form services.ActionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.actionService.Create(c.Request.Context(), &form)
	if err != nil {
		respondServiceError(c, h.log, "Create", err)
		return
	}
	response.RespondCreated(c, gin.H{"action": view})
}

func (h *ActionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var form services.ActionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.actionService.Update(c.Request.Context(), id, &form)
	if err != nil {
		respondServiceError(c, h.log, "Update", err)
		return
	}
	response.RespondOK(c, gin.H{"action": view})
}

func (h *ActionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.actionService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "Delete", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
