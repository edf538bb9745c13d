package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"xml-uploader/internal/config"
	"xml-uploader/internal/models"
	"xml-uploader/internal/router"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// 配置文件路径可通过 XMLUP_CONFIG 覆盖
	configFile := os.Getenv("XMLUP_CONFIG")
	if configFile == "" {
		configFile = "./config/config.yaml"
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := newLogger(cfg)
	logger.WithField("config", config.ConfigPath()).Debug("配置加载完成")

	// 初始化数据库
	db, err := models.InitDB(cfg)
	if err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}

	// 初始化Redis(可选)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("Redis连接失败, 上传并发限制将放行请求: %v", err)
		}
		defer redisClient.Close()
	}

	// 设置路由
	r := router.SetupRouter(cfg, logger, db, redisClient)

	srv := &http.Server{
		Addr:    cfg.Server.GetAddress(),
		Handler: r,
	}

	go func() {
		logger.Infof("服务器启动在 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("启动服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("服务器已退出")
}

// newLogger 按配置初始化日志
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Log.Format == "text" && !cfg.Server.ProductionMode {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
