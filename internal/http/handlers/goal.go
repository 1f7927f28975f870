package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
)

type GoalHandler struct {
	log         *logger.Logger
	goalService services.GoalService
}

func NewGoalHandler(log *logger.Logger, goalService services.GoalService) *GoalHandler {
	return &GoalHandler{
		log:         log.With("handler", "GoalHandler"),
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(c *gin.Context) {
	var form services.GoalForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.goalService.Create(c.Request.Context(), &form)
	if err != nil {
		respondServiceError(c, h.log, "Create", err)
		return
	}
	response.RespondCreated(c, gin.H{"goal": view})
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var form services.GoalForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	view, err := h.goalService.Update(c.Request.Context(), id, &form)
	if err != nil {
		respondServiceError(c, h.log, "Update", err)
		return
	}
	response.RespondOK(c, gin.H{"goal": view})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, "Delete", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}
