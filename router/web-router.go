package router

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/aurum-labs/jewel-studio/common"
	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// SetWebRouter serves the front-end under root of buildFS. Unknown API
// paths get a JSON 404, everything else falls back to index.html.
func SetWebRouter(router *gin.Engine, buildFS fs.FS, root string) {
	indexPageData, err := fs.ReadFile(buildFS, path.Join(root, "index.html"))
	if err != nil {
		logger.SysError("front-end index.html not found: " + err.Error())
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(static.Serve("/", common.EmbedFolder(buildFS, root)))
	router.NoRoute(func(c *gin.Context) {
		uri := c.Request.RequestURI
		if strings.HasPrefix(uri, "/api") || strings.HasPrefix(uri, "/generate-") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid URL (" + c.Request.Method + " " + c.Request.URL.Path + ")"})
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPageData)
	})
}
