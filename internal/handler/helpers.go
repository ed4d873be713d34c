package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/notesrv/internal/middleware"
	appErr "github.com/xxxsen/notesrv/internal/pkg/errors"
	"github.com/xxxsen/notesrv/internal/pkg/response"
)

func parseNoteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	switch {
	case appErr.IsNotFound(err):
		logger.Debug("note not found", zap.Error(err))
		response.Error(c, http.StatusNotFound, response.DetailNotFound)
	case appErr.IsInvalid(err):
		logger.Debug("invalid request", zap.Error(err))
		response.Error(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.DetailInternal)
	}
}
