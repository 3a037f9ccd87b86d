package middleware

import (
	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/gin-gonic/gin"
)

func abortWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": helper.MessageWithRequestId(message, c.GetString(logger.RequestIdKey)),
	})
	c.Abort()
	logger.Error(c.Request.Context(), message)
}
