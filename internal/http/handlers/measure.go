package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

// MeasureHandler exposes the catalog read-only. Writes go through the
// resolver inside the coordinators, never through HTTP.
type MeasureHandler struct {
	log      *logger.Logger
	measures repos.MeasureRepo
}

func NewMeasureHandler(log *logger.Logger, measures repos.MeasureRepo) *MeasureHandler {
	return &MeasureHandler{
		log:      log.With("handler", "MeasureHandler"),
		measures: measures,
	}
}

func (h *MeasureHandler) List(c *gin.Context) {
	rows, err := h.measures.List(c.Request.Context(), nil)
	if err != nil {
		respondServiceError(c, h.log, "List", err)
		return
	}
	response.RespondOK(c, gin.H{"measures": rows})
}
