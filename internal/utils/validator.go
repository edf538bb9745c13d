package utils

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 注册自定义验证函数
	_ = validate.RegisterValidation("xmlname", validateXMLName)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	validateOnce.Do(InitValidator)
	return validate
}

// validateXMLName 文件名必须以 .xml 结尾(不区分大小写)
func validateXMLName(fl validator.FieldLevel) bool {
	return strings.HasSuffix(strings.ToLower(fl.Field().String()), ".xml")
}

// ValidateVar 验证单个字段, field 用于错误信息
func ValidateVar(field string, value interface{}, tag string) error {
	if err := GetValidator().Var(value, tag); err != nil {
		return formatFieldError(field, err)
	}
	return nil
}

func formatFieldError(field string, err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return fmt.Errorf("%s", fieldMessage(field, validationErrors[0]))
	}
	return err
}

func fieldMessage(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "xmlname":
		return "only XML files are allowed"
	default:
		return fmt.Sprintf("%s failed on %s", field, e.Tag())
	}
}
