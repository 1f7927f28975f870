package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/http/response"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

// respondServiceError is the single translation point from service errors to
// HTTP. Validation failures are the only errors whose message reaches the
// client verbatim.
func respondServiceError(c *gin.Context, log *logger.Logger, op string, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		response.RespondValidation(c, ve.Code, ve.Field, ve.Message)
		return
	}
	if errors.Is(err, pkgerrors.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if log != nil {
		log.Error(op+" failed", "error", err)
	}
	response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
}
