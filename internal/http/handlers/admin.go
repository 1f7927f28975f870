package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
)

type AdminHandler struct {
	log        *logger.Logger
	embeddings services.EmbeddingService
}

func NewAdminHandler(log *logger.Logger, embeddings services.EmbeddingService) *AdminHandler {
	return &AdminHandler{
		log:        log.With("handler", "AdminHandler"),
		embeddings: embeddings,
	}
}

// CompactEmbeddings purges superseded cache rows. Compaction is manual only;
// nothing in the write path ever deletes cache rows.
func (h *AdminHandler) CompactEmbeddings(c *gin.Context) {
	kinds := []string{types.ExpectationKindGoal, types.ExpectationKindAction}
	if k := c.Query("entity_type"); k != "" {
		kinds = []string{k}
	}
	var total int64
	for _, kind := range kinds {
		n, err := h.embeddings.Compact(c.Request.Context(), kind)
		if err != nil {
			respondServiceError(c, h.log, "CompactEmbeddings", err)
			return
		}
		total += n
	}
	h.log.Info("compacted embedding cache", "deleted", total)
	response.RespondOK(c, gin.H{"deleted": total})
}
