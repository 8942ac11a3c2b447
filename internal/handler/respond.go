package handler

import (
	"errors"
	"net/http"

	"agenda/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes err as {"message": ...}. Client errors carry their own
// message; anything else is logged and hidden behind a generic one.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		log.Debug("request rejected",
			zap.String("kind", appErr.Kind.String()),
			zap.String("field", appErr.Field),
			zap.String("message", appErr.Message),
		)
		c.JSON(apperr.HTTPStatus(appErr.Kind), gin.H{"message": appErr.Message})
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": apperr.MsgInternal})
}
