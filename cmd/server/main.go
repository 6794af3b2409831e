package main

import (
	"context"
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/promptvault/backend/config"
	"github.com/promptvault/backend/internal/auth"
	"github.com/promptvault/backend/internal/eventbus"
	"github.com/promptvault/backend/internal/handler"
	"github.com/promptvault/backend/internal/pkg/database"
	"github.com/promptvault/backend/internal/repository"
	"github.com/promptvault/backend/internal/router"
	"github.com/promptvault/backend/internal/service"
	"github.com/promptvault/backend/internal/service/modelcatalog"
	"github.com/promptvault/backend/internal/service/publish"
	"github.com/promptvault/backend/internal/subscriber"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	promptRepo := repository.NewPromptRepository(db)
	versionRepo := repository.NewVersionRepository(db)

	// 初始化 Service
	promptService := service.NewPromptService(cfg, promptRepo, versionRepo)
	publisher := publish.New(publish.NewGitHubStore(cfg.GitHub))
	catalog := modelcatalog.NewCatalog()

	// 发布状态变化后由订阅方尽力重建 README 索引
	bus := eventbus.NewBus()
	subscriber.NewIndexEventSubscriber(promptService, publisher).Register(bus)

	// 初始化登录门禁
	authenticator, err := auth.NewAuthenticator(context.Background(), cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize authenticator: %v", err)
	}
	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authenticator, sessions)
	promptHandler := handler.NewPromptHandler(promptService, publisher, bus)
	publishHandler := handler.NewPublishHandler(promptService, publisher, bus)
	metaHandler := handler.NewMetaHandler(promptService, catalog)

	// 设置路由
	r := router.Setup(cfg, authenticator, sessions, authHandler, promptHandler, publishHandler, metaHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
