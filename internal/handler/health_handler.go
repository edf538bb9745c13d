package handler

import (
	"context"
	"net/http"

	"xml-uploader/internal/service"
	"xml-uploader/internal/utils"

	"github.com/gin-gonic/gin"
)

// Version 服务版本
const Version = "1.0.0"

// SlotCounter 上传并发槽位的占用情况
type SlotCounter interface {
	GetCurrent(ctx context.Context, key string) (int, error)
	GetMaxConcurrent() int
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	xmlFileService *service.XMLFileService
	slots          SlotCounter
	slotKey        string
}

// NewHealthHandler 创建健康检查处理器, slots 为 nil 时不输出槽位信息
func NewHealthHandler(xmlFileService *service.XMLFileService, slots SlotCounter, slotKey string) *HealthHandler {
	return &HealthHandler{
		xmlFileService: xmlFileService,
		slots:          slots,
		slotKey:        slotKey,
	}
}

// Index 服务信息和存储可用性
func (h *HealthHandler) Index(c *gin.Context) {
	total, err := h.xmlFileService.Total(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	body := gin.H{
		"message": "XML file upload API",
		"version": Version,
		"records": total,
	}

	if h.slots != nil {
		uploads := gin.H{"max": h.slots.GetMaxConcurrent()}
		// 槽位计数不可用不影响健康状态
		if current, err := h.slots.GetCurrent(c.Request.Context(), h.slotKey); err == nil {
			uploads["in_use"] = current
		}
		body["upload_slots"] = uploads
	}

	utils.OK(c, body)
}
