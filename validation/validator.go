// Package validation 提供实体校验使用的字段级校验函数，失败统一返回 VALIDATION_ERROR。
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"sndeals/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginRegex = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)
)

// AllowedEmailDomains 允许注册的邮箱域
var AllowedEmailDomains = []string{
	"springernature.com",
	"nature.com",
	"macmillaneducation.com",
}

// ValidateStringLength 验证字符串长度，max <= 0 表示不限制上限
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len(value)
	if length < min {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能少于%d个字符（当前%d）", fieldName, min, length))
	}
	if max > 0 && length > max {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s长度不能超过%d个字符（当前%d）", fieldName, max, length))
	}
	return nil
}

// ValidateRequired 验证必填字段
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s不能为空", fieldName))
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	if email == "" {
		return errors.NewError(errors.ErrCodeValidation, "邮箱不能为空")
	}

	if !emailRegex.MatchString(email) {
		return errors.NewError(errors.ErrCodeValidation, "邮箱格式不正确")
	}
	return nil
}

// IsAllowedEmailDomain 邮箱以 @<允许域> 结尾；子域名不算
func IsAllowedEmailDomain(email string) bool {
	if email == "" {
		return false
	}
	for _, domain := range AllowedEmailDomains {
		if strings.HasSuffix(email, "@"+domain) {
			return true
		}
	}
	return false
}

// ValidateEmailDomain 验证邮箱格式及所属域
func ValidateEmailDomain(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if !IsAllowedEmailDomain(email) {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("邮箱域不在允许范围内，必须是以下之一: %v", AllowedEmailDomains)).
			WithContext("email", email)
	}
	return nil
}

// ValidateLogin 验证登录名
func ValidateLogin(login string) error {
	if err := ValidateRequired(login, "登录名"); err != nil {
		return err
	}
	if err := ValidateStringLength(login, "登录名", 1, 50); err != nil {
		return err
	}
	if !loginRegex.MatchString(login) {
		return errors.NewError(errors.ErrCodeValidation,
			"登录名只能包含字母、数字以及 _ . @ -")
	}
	return nil
}

// ValidateEnum 验证枚举值
func ValidateEnum(value, fieldName string, validValues []string) error {
	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}
	return errors.NewError(errors.ErrCodeValidation,
		fmt.Sprintf("%s的值无效，必须是以下之一: %v", fieldName, validValues))
}

// ValidatePageParams 验证分页参数
func ValidatePageParams(page, pageSize, maxPageSize int) error {
	if page <= 0 {
		return errors.NewError(errors.ErrCodeInvalidPageWindow, "页码必须大于0")
	}
	if pageSize <= 0 {
		return errors.NewError(errors.ErrCodeInvalidPageWindow, "每页大小必须大于0")
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		return errors.NewError(errors.ErrCodeInvalidPageWindow,
			fmt.Sprintf("每页大小不能超过%d", maxPageSize))
	}
	return nil
}

// ValidateID 验证ID有效性
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return errors.NewError(errors.ErrCodeValidation,
			fmt.Sprintf("%s必须为正整数", fieldName))
	}
	return nil
}
