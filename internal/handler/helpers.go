package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/inkmark/inkmark/internal/middleware"
	appErr "github.com/inkmark/inkmark/internal/pkg/errors"
	"github.com/inkmark/inkmark/internal/pkg/response"
	"github.com/inkmark/inkmark/internal/service"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func userActor(c *gin.Context) service.Actor {
	actor := service.UserActor(getUserID(c))
	actor.IP = c.ClientIP()
	return actor
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Info("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "not_found", "not found")
	case appErr.IsExpired(err):
		response.Error(c, http.StatusUnauthorized, "expired_capability", "signing link is invalid or has expired")
	case appErr.IsConflict(err):
		response.Error(c, http.StatusConflict, "conflict", "conflict")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
	case errors.Is(err, appErr.ErrDependency):
		response.Error(c, http.StatusBadGateway, "dependency_failure", "upstream dependency failed")
	default:
		response.Error(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
