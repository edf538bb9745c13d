package service

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"xml-uploader/internal/utils"
)

// DefaultMaxBytes 默认上传大小上限(10 MiB)
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// DefaultFileName 未提供文件名时使用的名称
const DefaultFileName = "unnamed.xml"

// ValidatedRecord 校验通过、可直接入库的记录
type ValidatedRecord struct {
	Content  string
	FileName string
}

// XMLValidator XML记录校验器
type XMLValidator struct {
	maxBytes     int64
	defaultName  string
	allowDoctype bool
}

// NewXMLValidator 创建XML记录校验器
func NewXMLValidator(maxBytes int64, defaultName string, allowDoctype bool) *XMLValidator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if defaultName == "" {
		defaultName = DefaultFileName
	}
	return &XMLValidator{
		maxBytes:     maxBytes,
		defaultName:  defaultName,
		allowDoctype: allowDoctype,
	}
}

// MaxBytes 返回上传大小上限
func (v *XMLValidator) MaxBytes() int64 {
	return v.maxBytes
}

// Validate 按顺序执行校验, 返回第一个失败原因
func (v *XMLValidator) Validate(c *Candidate) (*ValidatedRecord, error) {
	if c == nil || !c.HasPayload {
		return nil, newValidationError(ReasonMissing, "file/content is required")
	}

	if c.Oversize || int64(len(c.Raw)) > v.maxBytes {
		return nil, NewTooLargeError(v.maxBytes)
	}

	for _, name := range []string{c.DeclaredName, c.FileName} {
		if name == "" {
			continue
		}
		if err := utils.ValidateVar("file_name", name, "xmlname"); err != nil {
			return nil, newValidationError(ReasonExtension, "%v", err)
		}
	}

	if !utf8.Valid(c.Raw) {
		return nil, newValidationError(ReasonEncoding, "unable to decode content as UTF-8")
	}
	content := string(c.Raw)

	if err := CheckWellFormed(content, v.allowDoctype); err != nil {
		return nil, newValidationError(ReasonMalformed, "invalid XML format: %v", err)
	}

	name := v.fileName(c)
	if err := utils.ValidateVar("file_name", name, "max=255"); err != nil {
		return nil, newValidationError(ReasonFileName, "%v", err)
	}

	return &ValidatedRecord{
		Content:  content,
		FileName: name,
	}, nil
}

func (v *XMLValidator) fileName(c *Candidate) string {
	if c.FileName != "" {
		return c.FileName
	}
	if c.DeclaredName != "" {
		return c.DeclaredName
	}
	return v.defaultName
}

// byteOrderMark 文档开头允许出现的UTF-8 BOM
const byteOrderMark = "\ufeff"

// CheckWellFormed 检查文本是否为格式良好的XML文档.
// 只识别五个预定义实体和字符引用, DOCTYPE 中声明的实体永远不会被展开.
func CheckWellFormed(content string, allowDoctype bool) error {
	d := xml.NewDecoder(strings.NewReader(strings.TrimPrefix(content, byteOrderMark)))
	d.Strict = true
	d.Entity = nil
	// 内容已按UTF-8解码, 编码声明不再需要转换
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	depth := 0
	seenRoot := false
	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && seenRoot {
				return positionError(d, "junk after document element")
			}
			if name, dup := duplicateAttr(t.Attr); dup {
				return positionError(d, "duplicate attribute "+name)
			}
			depth++
			seenRoot = true
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return positionError(d, "text outside the document element")
			}
		case xml.ProcInst:
			// XML声明只能出现在文档最开头
			if strings.EqualFold(t.Target, "xml") && offset != 0 {
				return positionError(d, "XML declaration not at start of document")
			}
		case xml.Directive:
			if !allowDoctype {
				return positionError(d, "DTD is not allowed")
			}
			if seenRoot {
				return positionError(d, "DOCTYPE after document element")
			}
		}
	}

	if !seenRoot {
		return positionError(d, "no element found")
	}
	return nil
}

func duplicateAttr(attrs []xml.Attr) (string, bool) {
	if len(attrs) < 2 {
		return "", false
	}
	seen := make(map[xml.Name]struct{}, len(attrs))
	for _, a := range attrs {
		if _, ok := seen[a.Name]; ok {
			if a.Name.Space != "" {
				return a.Name.Space + ":" + a.Name.Local, true
			}
			return a.Name.Local, true
		}
		seen[a.Name] = struct{}{}
	}
	return "", false
}

func positionError(d *xml.Decoder, msg string) error {
	line, col := d.InputPos()
	return fmt.Errorf("%s: line %d, column %d", msg, line, col)
}
