package service

import (
	"context"
	"errors"
	"fmt"

	"xml-uploader/internal/models"
	"xml-uploader/internal/repository"

	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination=mocks/xml_file_store_mock.go -package=mocks -source=xml_file_service.go

// XMLFileStore 记录存储
type XMLFileStore interface {
	Create(ctx context.Context, file *models.XMLFile) error
	GetByID(ctx context.Context, id uint) (*models.XMLFile, error)
	List(ctx context.Context) ([]models.XMLFile, error)
	Count(ctx context.Context) (int64, error)
}

// XMLFileService XML文件服务
type XMLFileService struct {
	store     XMLFileStore
	validator *XMLValidator
	logger    *logrus.Logger
}

// NewXMLFileService 创建XML文件服务
func NewXMLFileService(store XMLFileStore, validator *XMLValidator, logger *logrus.Logger) *XMLFileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &XMLFileService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Upload 规范化、校验并保存上传的XML文档.
// 校验失败时返回 *ValidationError, 读取请求体失败时返回 *ReadError.
func (s *XMLFileService) Upload(ctx context.Context, in UploadCandidate) (*models.XMLFile, error) {
	if in == nil {
		return nil, newValidationError(ReasonMissing, "file/content is required")
	}

	candidate, err := in.resolve(s.validator.MaxBytes())
	if err != nil {
		return nil, err
	}

	record, err := s.validator.Validate(candidate)
	if err != nil {
		return nil, err
	}

	name := record.FileName
	file := &models.XMLFile{
		Content:  record.Content,
		FileName: &name,
	}
	if err := s.store.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("保存XML文件失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":        file.ID,
		"file_name": file.DisplayName(),
		"size":      len(file.Content),
	}).Info("XML文件已保存")

	return file, nil
}

// List 获取全部XML文件, 最新的在前
func (s *XMLFileService) List(ctx context.Context) ([]models.XMLFile, int64, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("获取XML文件列表失败: %w", err)
	}
	return files, int64(len(files)), nil
}

// Get 根据ID获取XML文件
func (s *XMLFileService) Get(ctx context.Context, id uint) (*models.XMLFile, error) {
	file, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrXMLFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("获取XML文件失败: %w", err)
	}
	return file, nil
}

// Total 获取记录总数
func (s *XMLFileService) Total(ctx context.Context) (int64, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("统计XML文件失败: %w", err)
	}
	return total, nil
}
