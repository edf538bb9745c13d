package models

import (
	"time"
)

// XMLFile 上传的XML文档记录
type XMLFile struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	FileName   *string   `gorm:"size:255" json:"file_name"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName 指定表名
func (XMLFile) TableName() string {
	return "xml_file"
}

// DisplayName 返回记录的展示名称
func (f *XMLFile) DisplayName() string {
	if f.FileName != nil && *f.FileName != "" {
		return *f.FileName
	}
	return ""
}
