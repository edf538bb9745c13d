package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"xml-uploader/internal/dto"
	"xml-uploader/internal/service"
	"xml-uploader/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// multipartOverhead multipart 边界和表单字段允许的额外字节数
const multipartOverhead int64 = 1 << 20

// fieldsEscapeFactor JSON或表单转义后单个字节最多占用的字节数(\u00XX)
const fieldsEscapeFactor int64 = 6

// xmlMediaTypes 按原始请求体处理的媒体类型
var xmlMediaTypes = map[string]bool{
	"application/xml": true,
	"text/xml":        true,
}

// XMLFileHandler XML文件处理器
type XMLFileHandler struct {
	xmlFileService *service.XMLFileService
	maxBytes       int64
	logger         *logrus.Logger
}

// NewXMLFileHandler 创建XML文件处理器
func NewXMLFileHandler(xmlFileService *service.XMLFileService, maxBytes int64, logger *logrus.Logger) *XMLFileHandler {
	if maxBytes <= 0 {
		maxBytes = service.DefaultMaxBytes
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &XMLFileHandler{
		xmlFileService: xmlFileService,
		maxBytes:       maxBytes,
		logger:         logger,
	}
}

// Create 上传XML文件
// 支持 multipart 的 file 字段、Content-Type 为 XML 的原始请求体, 以及直接提交的 JSON/表单字段
func (h *XMLFileHandler) Create(c *gin.Context) {
	candidate, err := h.candidate(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	file, err := h.xmlFileService.Upload(c.Request.Context(), candidate)
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.Created(c, dto.NewXMLFileResponse(file))
}

// List 获取XML文件列表, 最新的在前
func (h *XMLFileHandler) List(c *gin.Context) {
	files, total, err := h.xmlFileService.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	utils.OK(c, dto.NewXMLFileListResponse(files))
}

// Get 获取XML文件详情
func (h *XMLFileHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		utils.NotFound(c, service.ErrXMLFileNotFound.Error())
		return
	}

	file, err := h.xmlFileService.Get(c.Request.Context(), uint(id))
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.OK(c, dto.NewXMLFileResponse(file))
}

// candidate 根据请求形态选择唯一的解析方式
func (h *XMLFileHandler) candidate(c *gin.Context) (service.UploadCandidate, error) {
	contentType := c.ContentType()

	if contentType == gin.MIMEMultipartPOSTForm {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

		header, err := c.FormFile("file")
		switch {
		case err == nil:
			return service.MultipartCandidate{Header: header, FileName: c.PostForm("file_name")}, nil
		case isBodyTooLarge(err):
			return nil, service.NewTooLargeError(h.maxBytes)
		case !errors.Is(err, http.ErrMissingFile):
			return nil, &service.ReadError{Err: err}
		}
	}

	if xmlMediaTypes[contentType] {
		return service.RawBodyCandidate{
			Body:     c.Request.Body,
			FileName: c.GetHeader("X-Filename"),
		}, nil
	}

	if contentType != gin.MIMEMultipartPOSTForm {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes*fieldsEscapeFactor+multipartOverhead)
	}

	var req dto.CreateXMLFileRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		if isBodyTooLarge(err) {
			return nil, service.NewTooLargeError(h.maxBytes)
		}
		return nil, &bindError{err: err}
	}
	return req.Candidate(), nil
}

// writeError 将错误映射为HTTP状态码
func (h *XMLFileHandler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var readErr *service.ReadError
	var bindErr *bindError

	switch {
	case errors.As(err, &validationErr):
		c.Set("reject_reason", validationErr.Reason.String())
		utils.BadRequest(c, validationErr.Msg)
	case errors.As(err, &readErr):
		utils.BadRequest(c, readErr.Error())
	case errors.As(err, &bindErr):
		utils.BadRequest(c, bindErr.Error())
	case errors.Is(err, service.ErrXMLFileNotFound):
		utils.NotFound(c, err.Error())
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("处理XML文件请求失败")
		utils.InternalError(c, "internal server error")
	}
}

// bindError 结构化字段解析失败
type bindError struct {
	err error
}

func (e *bindError) Error() string {
	return "invalid request body: " + e.err.Error()
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
