package api

import (
	ers "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sndeals/errors"
	"sndeals/logging"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor 错误码到 HTTP 状态码的映射
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeValidation,
		errors.ErrCodeInvalidCriteria,
		errors.ErrCodeInvalidPageWindow:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DefaultErrorHandler 输出 {code, message}；5xx 不暴露内部错误信息
func DefaultErrorHandler(c *gin.Context, err error) {
	code := errors.GetErrorCode(err)
	status := StatusFor(code)
	msg := err.Error()
	var appErr errors.IError
	if ers.As(err, &appErr) {
		msg = appErr.Message()
	}
	if status >= http.StatusInternalServerError {
		logging.ComponentLogger("api").Error(c.Request.Context(), "request failed",
			logging.String("path", c.FullPath()),
			logging.String("code", string(code)),
			logging.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: msg})
}
