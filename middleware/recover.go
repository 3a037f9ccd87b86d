package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/gin-gonic/gin"
)

// RelayPanicRecover turns a panic in a generation route into the usual
// {"error": ...} body so the front-end can show it.
func RelayPanicRecover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.SysError(fmt.Sprintf("panic detected: %v", err))
				logger.SysError(fmt.Sprintf("stacktrace from panic: %s", string(debug.Stack())))
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": fmt.Sprintf("Panic detected, error: %v", err),
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
