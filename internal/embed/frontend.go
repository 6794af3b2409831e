package embed

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed ui/dist/*
var embeddedFiles embed.FS

// GetFrontendFS 获取前端文件系统（用于嵌入）
func GetFrontendFS() fs.FS {
	return embeddedFiles
}

// SetupRouter 设置前端静态文件路由。
// 必须在 API 路由之后注册，确保 API 请求优先匹配。
func SetupRouter(r *gin.Engine) {
	frontendFS := GetFrontendFS()

	// assets 目录
	assetsFS, err := fs.Sub(frontendFS, "ui/dist/assets")
	if err == nil {
		r.GET("/assets/*filepath", gin.WrapH(http.StripPrefix("/assets", http.FileServer(http.FS(assetsFS)))))
	}

	// SPA 根路由，未匹配的非 API 路径一律回退到 index.html
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		indexHTML, err := fs.ReadFile(frontendFS, "ui/dist/index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to load index.html")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
}
