package apperrors

import (
	"errors"
	"net/http"
)

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// BusinessError 封装业务逻辑错误（通用）
func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "Parameter verification failed")
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "System error")
}

// 业务错误码与 HTTP 状态一一对应：
// InvalidUrl → 400, AliasConflict → 409, NotFound → 404, Expired → 410, Forbidden → 403
// Message 统一存消息 ID，由全局错误中间件按请求语言解析

// InvalidURLError 目标 URL 非法
func InvalidURLError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// AliasConflictError 别名已被占用
func AliasConflictError() *AppError {
	return WithCode(http.StatusConflict, "error.alias_conflict")
}

// NotFoundError 链接不存在
func NotFoundError() *AppError {
	return WithCode(http.StatusNotFound, "error.link_not_found")
}

// ExpiredError 链接已过期（区别于 NotFound，对应 410 Gone）
func ExpiredError() *AppError {
	return WithCode(http.StatusGone, "error.link_expired")
}

// ForbiddenError 非链接归属人
func ForbiddenError() *AppError {
	return WithCode(http.StatusForbidden, "error.forbidden")
}

// HasCode 判断错误链上是否存在指定状态码的 AppError
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
