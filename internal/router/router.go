package router

import (
	"xml-uploader/internal/config"
	"xml-uploader/internal/handler"
	"xml-uploader/internal/middleware"
	"xml-uploader/internal/repository"
	"xml-uploader/internal/service"
	"xml-uploader/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// uploadSlotKey 上传并发槽位的Redis key
const uploadSlotKey = "uploads"

// SetupRouter 设置路由, redisClient 为 nil 时不限制上传并发
func SetupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORS(cfg))

	// 初始化Repository
	xmlFileRepo := repository.NewXMLFileRepository(db)

	// 初始化Service
	validator := service.NewXMLValidator(cfg.Upload.MaxBytes, cfg.Upload.DefaultFileName, cfg.Upload.AllowDoctype)
	xmlFileService := service.NewXMLFileService(xmlFileRepo, validator, logger)

	// 上传并发限制(可选), 接口变量只在限制器存在时赋值
	var limiter middleware.ConcurrencyLimiter
	var slots handler.SlotCounter
	if redisClient != nil && cfg.Upload.MaxConcurrent > 0 {
		redisLimiter := redis_limiter.NewRedisLimiter(
			redisClient,
			cfg.Upload.MaxConcurrent,
			"xmlup:slots:",
			cfg.Redis.GetSlotTTL(),
			logger,
		)
		limiter = redisLimiter
		slots = redisLimiter
	}

	// 初始化Handler
	healthHandler := handler.NewHealthHandler(xmlFileService, slots, uploadSlotKey)
	xmlFileHandler := handler.NewXMLFileHandler(xmlFileService, cfg.Upload.MaxBytes, logger)

	// 健康检查
	r.GET("/", healthHandler.Index)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// XML文件资源
	files := r.Group("/xmlfiles")
	{
		files.GET("/", xmlFileHandler.List)
		files.POST("/", middleware.UploadLimiter(limiter, uploadSlotKey, logger), xmlFileHandler.Create)
		files.GET("/:id/", xmlFileHandler.Get)
	}

	return r
}
