package handlers

import (
	"courtside/middleware"
	"courtside/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger set by RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// callerID is the uid set by the auth middleware.
func callerID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}
