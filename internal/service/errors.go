package service

import (
	"errors"
	"fmt"
)

// ErrXMLFileNotFound 记录不存在
var ErrXMLFileNotFound = errors.New("not found")

// Reason 校验失败类别
type Reason int

const (
	// ReasonMissing 缺少文件或内容
	ReasonMissing Reason = iota + 1
	// ReasonTooLarge 超过大小限制
	ReasonTooLarge
	// ReasonExtension 文件扩展名不是 .xml
	ReasonExtension
	// ReasonEncoding 内容不是合法的UTF-8
	ReasonEncoding
	// ReasonMalformed XML格式不合法
	ReasonMalformed
	// ReasonFileName 文件名过长
	ReasonFileName
)

func (r Reason) String() string {
	switch r {
	case ReasonMissing:
		return "missing"
	case ReasonTooLarge:
		return "too_large"
	case ReasonExtension:
		return "extension"
	case ReasonEncoding:
		return "encoding"
	case ReasonMalformed:
		return "malformed"
	case ReasonFileName:
		return "file_name"
	default:
		return "unknown"
	}
}

// ValidationError 上传校验失败, Msg 直接返回给客户端
type ValidationError struct {
	Reason Reason
	Msg    string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func newValidationError(reason Reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

// NewTooLargeError 请求体超过上限时由传输层直接返回
func NewTooLargeError(maxBytes int64) *ValidationError {
	return newValidationError(ReasonTooLarge, "file size exceeds limit of %d bytes", maxBytes)
}

// ReadError 读取请求体失败
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "error reading XML content: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
