package router

import (
	"embed"

	"github.com/aurum-labs/jewel-studio/middleware"
	"github.com/gin-gonic/gin"
)

func SetRouter(router *gin.Engine, buildFS embed.FS) {
	// global so that preflight requests are answered before routing
	router.Use(middleware.CORS())
	SetApiRouter(router)
	SetRelayRouter(router)
	SetWebRouter(router, buildFS, "web")
}
