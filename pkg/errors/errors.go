// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 对外暴露的稳定错误码
type ErrorCode string

// 预定义错误码
const (
	// 本地校验错误（不触发任何外呼）
	CodeInvalidPhase     ErrorCode = "invalid_phase"
	CodeMissingDirection ErrorCode = "missing_direction"
	CodeSourcesNeedPaste ErrorCode = "sources_need_paste"

	// LLM 提供商错误（由网关错误分类器归类）
	CodeInsufficientQuota ErrorCode = "insufficient_quota"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeTemporaryError    ErrorCode = "temporary_error"
	CodeUnknownError      ErrorCode = "unknown_error"

	// 上游返回 200 但内容不是合法 JSON
	CodeUpstreamInvalidJSON ErrorCode = "upstream_invalid_json"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidPhase, CodeMissingDirection:
		return http.StatusBadRequest
	case CodeSourcesNeedPaste:
		return http.StatusUnprocessableEntity
	case CodeInsufficientQuota, CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTemporaryError:
		return http.StatusServiceUnavailable
	case CodeUpstreamInvalidJSON:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknownError, "unknown error")
}
