package router

import (
	"github.com/aurum-labs/jewel-studio/controller"
	"github.com/aurum-labs/jewel-studio/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func SetApiRouter(router *gin.Engine) {
	apiRouter := router.Group("/api")
	apiRouter.Use(gzip.Gzip(gzip.DefaultCompression))
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.GET("/monitor/health", controller.GetHealth)
		apiRouter.GET("/monitor/metrics", controller.GetMetrics)
		designRoute := apiRouter.Group("/designs")
		designRoute.Use(middleware.DesignSession())
		{
			designRoute.GET("", controller.GetDesigns)
			designRoute.GET("/:id", controller.GetDesign)
		}
	}
}
