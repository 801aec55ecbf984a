package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"qlink-go/internal/dto"
	"qlink-go/internal/handler"
	"qlink-go/internal/i18n"
	"qlink-go/internal/middleware"
	"qlink-go/internal/repository"
	"qlink-go/internal/service"
	"qlink-go/pkg/logging"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func startServer(r *gin.Engine, onShutdown func()) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// 等记录器把队列里剩余的点击事件写完
	onShutdown()

	logging.Logger.Info("Server exiting")
}

func main() {
	initConfig()
	logging.InitLoggerFromConfig()
	logging.Logger.Info("Application started")

	db := repository.InitDB(logging.Logger, logging.AtomicLevel)
	redisPool := repository.NewRedisPool()

	linkStore := repository.NewLinkStore(db)
	clickStore := repository.NewClickStore(db)

	linkService := service.NewLinkService(linkStore, redisPool, logging.Logger)
	recorder := service.NewClickRecorder(
		clickStore,
		viper.GetInt("recorder.queue_size"),
		viper.GetInt("recorder.workers"),
		logging.Logger,
	)
	recorder.Start()
	redirectService := service.NewRedirectService(linkService, recorder, logging.Logger)
	analyticsService := service.NewAnalyticsService(
		linkService,
		clickStore,
		viper.GetInt("analytics.window_days"),
		logging.Logger,
	)

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		panic(err)
	}

	dto.RegisterCustomValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))

	linkHandler := handler.NewLinkHandler(linkService, redirectService, analyticsService)

	jwtSecret := []byte(viper.GetString("auth.jwt_secret"))
	api := r.Group("/api", middleware.AuthMiddleware(jwtSecret))
	{
		api.POST("/links", linkHandler.CreateLinkHandler)
		api.GET("/links", linkHandler.ListLinksHandler)
		api.GET("/links/:id/analytics", linkHandler.LinkAnalyticsHandler)
	}

	r.GET("/health", handler.HealthHandler)
	r.GET("/:alias", linkHandler.RedirectHandler)

	// 定时任务：每晚物化各短链的按天点击量
	c := cron.New()
	_, addErr := c.AddFunc("5 0 * * *", func() {
		if err := analyticsService.RollupDailyStats(context.Background()); err != nil {
			logging.Logger.Error("Daily stats rollup failed", zap.Error(err))
		}
	})
	if addErr != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(addErr))
	}
	c.Start()

	startServer(r, func() {
		c.Stop()
		recorder.Close()
		if err := redisPool.Close(); err != nil {
			logging.Logger.Warn("Redis pool close failed", zap.Error(err))
		}
	})
}
