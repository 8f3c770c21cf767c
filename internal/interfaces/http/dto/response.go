// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	"content-agent-api/pkg/errors"
)

// ErrorResponse 错误响应结构。
// code 与 detail 仅在有值时输出；traceId 始终回显。
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"traceId"`
}

// Fail 返回不带机器码的错误响应
func Fail(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Error:   message,
		TraceID: c.GetString("trace_id"),
	})
}

// FailCode 返回带机器码的错误响应
func FailCode(c *gin.Context, httpCode int, code errors.ErrorCode, message string) {
	c.JSON(httpCode, ErrorResponse{
		Error:   message,
		Code:    string(code),
		TraceID: c.GetString("trace_id"),
	})
}

// FailDetail 返回带机器码与补充说明的错误响应
func FailDetail(c *gin.Context, httpCode int, code errors.ErrorCode, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Error:   message,
		Code:    string(code),
		Detail:  detail,
		TraceID: c.GetString("trace_id"),
	})
}

// FailApp 按 AppError 自带的 HTTP 状态与机器码返回
func FailApp(c *gin.Context, appErr *errors.AppError) {
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Detail:  appErr.Detail,
		TraceID: c.GetString("trace_id"),
	})
}
