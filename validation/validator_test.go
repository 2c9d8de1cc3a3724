package validation

import (
	"strings"
	"testing"

	sharederrors "sndeals/errors"
)

// TestValidateStringLength 测试字符串长度验证
func TestValidateStringLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		max     int
		wantErr bool
	}{
		{name: "有效长度", value: "hello", min: 3, max: 10},
		{name: "长度太短", value: "ab", min: 3, max: 10, wantErr: true},
		{name: "长度太长", value: "abcdefghijk", min: 3, max: 10, wantErr: true},
		{name: "最小边界值", value: "abc", min: 3, max: 10},
		{name: "最大边界值", value: "abcdefghij", min: 3, max: 10},
		{name: "不限上限", value: strings.Repeat("x", 500), min: 1, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStringLength(tt.value, "字段", tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStringLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !sharederrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

// TestValidateRequired 测试必填字段验证
func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "有值", value: "Desk"},
		{name: "空字符串", value: "", wantErr: true},
		{name: "只有空白", value: "  \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.value, "title")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "title") {
				t.Errorf("error should name the field, got %v", err)
			}
		})
	}
}

// TestValidateEmailDomain 测试邮箱域验证
func TestValidateEmailDomain(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{email: "jane.doe@springernature.com"},
		{email: "j@nature.com"},
		{email: "teacher@macmillaneducation.com"},
		{email: "", wantErr: true},
		{email: "someone@gmail.com", wantErr: true},
		{email: "someone@sub.nature.com", wantErr: true},
		{email: "nature.com", wantErr: true},
		{email: "x@springernature.com.evil.io", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmailDomain(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmailDomain(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

// TestValidateLogin 测试登录名验证
func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("jane_doe"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLogin("jane doe"); err == nil {
		t.Error("login with space should be rejected")
	}
	if err := ValidateLogin(""); err == nil {
		t.Error("empty login should be rejected")
	}
}

// TestValidateEnum 测试枚举验证
func TestValidateEnum(t *testing.T) {
	valid := []string{"OPEN", "CLOSED"}
	if err := ValidateEnum("OPEN", "status", valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateEnum("open", "status", valid); err == nil {
		t.Error("enum match should be case sensitive")
	}
}

// TestValidatePageParams 测试分页参数验证
func TestValidatePageParams(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantErr  bool
	}{
		{name: "有效参数", page: 1, pageSize: 20},
		{name: "页码为0", page: 0, pageSize: 20, wantErr: true},
		{name: "页大小为0", page: 1, pageSize: 0, wantErr: true},
		{name: "页大小超限", page: 1, pageSize: 101, wantErr: true},
		{name: "页大小等于上限", page: 3, pageSize: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePageParams(tt.page, tt.pageSize, 100)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePageParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !sharederrors.IsErrorCode(err, sharederrors.ErrCodeInvalidPageWindow) {
				t.Errorf("expected INVALID_PAGE_WINDOW, got %v", err)
			}
		})
	}
}

// TestValidateID 测试ID验证
func TestValidateID(t *testing.T) {
	if err := ValidateID(1, "id"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateID(0, "id"); err == nil {
		t.Error("zero id should be rejected")
	}
}
