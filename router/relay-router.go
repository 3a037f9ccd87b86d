package router

import (
	"github.com/aurum-labs/jewel-studio/controller"
	"github.com/aurum-labs/jewel-studio/middleware"
	"github.com/gin-gonic/gin"
)

func SetRelayRouter(router *gin.Engine) {
	relayRouter := router.Group("")
	relayRouter.Use(middleware.RelayPanicRecover(), middleware.DesignSession())
	{
		generateRouter := relayRouter.Group("")
		generateRouter.Use(middleware.GenerationMetrics(), middleware.GenerateRateLimit())
		generateRouter.POST("/generate-2d", controller.Relay)
		generateRouter.POST("/generate-3d", controller.Relay)

		relayRouter.GET("/verify-keys", middleware.GlobalAPIRateLimit(), controller.VerifyKeys)
		relayRouter.POST("/validate-design", middleware.GlobalAPIRateLimit(), controller.ValidateDesign)
	}
}
