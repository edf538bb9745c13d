package dto

import (
	"time"

	"xml-uploader/internal/models"
	"xml-uploader/internal/service"
)

// XMLFileResponse XML文件响应
type XMLFileResponse struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	FileName   *string   `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewXMLFileResponse 从模型构造响应
func NewXMLFileResponse(f *models.XMLFile) XMLFileResponse {
	return XMLFileResponse{
		ID:         f.ID,
		Content:    f.Content,
		FileName:   f.FileName,
		UploadedAt: f.UploadedAt,
	}
}

// NewXMLFileListResponse 构造列表响应, 空列表返回 []
func NewXMLFileListResponse(files []models.XMLFile) []XMLFileResponse {
	items := make([]XMLFileResponse, len(files))
	for i := range files {
		items[i] = NewXMLFileResponse(&files[i])
	}
	return items
}

// CreateXMLFileRequest 直接提交字段的上传请求(JSON或表单)
type CreateXMLFileRequest struct {
	Content  *string `json:"content" form:"content"`
	FileName *string `json:"file_name" form:"file_name"`
}

// Candidate 转换为上传候选
func (r CreateXMLFileRequest) Candidate() service.FieldsCandidate {
	return service.FieldsCandidate{
		Content:  r.Content,
		FileName: r.FileName,
	}
}
