package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/promptvault/backend/config"
	"github.com/promptvault/backend/internal/auth"
	"github.com/promptvault/backend/internal/embed"
	"github.com/promptvault/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	authenticator *auth.Authenticator,
	sessions *auth.SessionManager,
	authHandler *handler.AuthHandler,
	promptHandler *handler.PromptHandler,
	publishHandler *handler.PublishHandler,
	metaHandler *handler.MetaHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		// 登录流程不经过会话门禁
		api.GET("/auth/login", authHandler.Login)
		api.GET("/auth/callback", authHandler.Callback)
		api.POST("/auth/logout", authHandler.Logout)

		protected := api.Group("")
		protected.Use(auth.Middleware(authenticator, sessions))
		{
			protected.GET("/auth/session", authHandler.Session)

			prompts := protected.Group("/prompts")
			{
				prompts.GET("", promptHandler.List)
				prompts.POST("", promptHandler.Create)
				prompts.GET("/filters", metaHandler.FilterOptions)
				prompts.GET("/:id", promptHandler.Get)
				prompts.PUT("/:id", promptHandler.Update)
				prompts.DELETE("/:id", promptHandler.Delete)
				prompts.GET("/:id/versions", promptHandler.Versions)
				prompts.POST("/:id/revert", promptHandler.Revert)
				prompts.POST("/:id/publish", publishHandler.Publish)
				prompts.PUT("/:id/publish", publishHandler.UpdatePublished)
				prompts.DELETE("/:id/publish", publishHandler.Unpublish)
			}

			protected.GET("/categories", metaHandler.Categories)
			protected.GET("/stats", metaHandler.Stats)
			protected.GET("/models", metaHandler.Models)
			protected.GET("/models/catalog", metaHandler.ModelCatalog)
		}
	}

	// 前端静态文件路由（嵌入式），必须在 API 路由之后设置
	embed.SetupRouter(r)

	return r
}
