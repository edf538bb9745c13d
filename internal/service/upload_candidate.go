package service

import (
	"fmt"
	"io"
	"mime/multipart"
)

// Candidate 规范化后的上传候选记录
type Candidate struct {
	// Raw 待校验的原始字节
	Raw []byte
	// HasPayload 是否携带了文件或内容
	HasPayload bool
	// DeclaredName 客户端声明的原始文件名, 用于扩展名校验
	DeclaredName string
	// FileName 显式指定的展示名称, 优先于 DeclaredName
	FileName string
	// Oversize Raw 在读取时被截断, 原始大小超过上限
	Oversize bool
}

// UploadCandidate 上传请求的输入形态, 仅限本包定义的三种实现
type UploadCandidate interface {
	resolve(maxBytes int64) (*Candidate, error)
}

// MultipartCandidate multipart 表单中的 file 字段
type MultipartCandidate struct {
	Header   *multipart.FileHeader
	FileName string
}

// RawBodyCandidate Content-Type 为 XML 的原始请求体
type RawBodyCandidate struct {
	Body     io.Reader
	FileName string
}

// FieldsCandidate 直接提交的结构化字段(JSON)
type FieldsCandidate struct {
	Content  *string
	FileName *string
}

func (m MultipartCandidate) resolve(maxBytes int64) (*Candidate, error) {
	if m.Header == nil {
		return &Candidate{}, nil
	}

	c := &Candidate{
		HasPayload:   true,
		DeclaredName: m.Header.Filename,
		FileName:     m.FileName,
	}
	// 超出上限时不读取文件内容
	if m.Header.Size > maxBytes {
		c.Oversize = true
		return c, nil
	}

	src, err := m.Header.Open()
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("open upload: %w", err)}
	}
	defer src.Close()

	raw, oversize, err := readLimited(src, maxBytes)
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("read upload: %w", err)}
	}
	c.Raw = raw
	c.Oversize = oversize
	return c, nil
}

func (r RawBodyCandidate) resolve(maxBytes int64) (*Candidate, error) {
	if r.Body == nil {
		return &Candidate{}, nil
	}

	raw, oversize, err := readLimited(r.Body, maxBytes)
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	return &Candidate{
		Raw:          raw,
		HasPayload:   true,
		DeclaredName: r.FileName,
		Oversize:     oversize,
	}, nil
}

func (f FieldsCandidate) resolve(_ int64) (*Candidate, error) {
	c := &Candidate{}
	if f.Content != nil {
		c.Raw = []byte(*f.Content)
		c.HasPayload = true
	}
	if f.FileName != nil {
		c.DeclaredName = *f.FileName
	}
	return c, nil
}

// readLimited 单次读取至多 maxBytes+1 字节, 多出的一个字节用于判定超限
func readLimited(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(raw)) > maxBytes {
		return raw[:maxBytes], true, nil
	}
	return raw, false, nil
}
