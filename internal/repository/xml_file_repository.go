package repository

import (
	"context"
	"errors"

	"xml-uploader/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// XMLFileRepository XML文件数据访问层
type XMLFileRepository struct {
	db *gorm.DB
}

// NewXMLFileRepository 创建XML文件Repository
func NewXMLFileRepository(db *gorm.DB) *XMLFileRepository {
	return &XMLFileRepository{db: db}
}

// Create 创建记录, ID 和上传时间由数据库分配
func (r *XMLFileRepository) Create(ctx context.Context, file *models.XMLFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// GetByID 根据ID获取记录
func (r *XMLFileRepository) GetByID(ctx context.Context, id uint) (*models.XMLFile, error) {
	var file models.XMLFile
	err := r.db.WithContext(ctx).First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// List 获取全部记录, 最新上传的在前
func (r *XMLFileRepository) List(ctx context.Context) ([]models.XMLFile, error) {
	files := make([]models.XMLFile, 0)
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Order("id DESC").Find(&files).Error
	return files, err
}

// Count 获取记录总数
func (r *XMLFileRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.XMLFile{}).Count(&total).Error
	return total, err
}
