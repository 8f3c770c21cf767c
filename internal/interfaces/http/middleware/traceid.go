// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"content-agent-api/pkg/logger"
)

const (
	// TraceIDHeader 响应回显的追踪 ID 头
	TraceIDHeader = "X-Trace-ID"
)

// TraceID 请求追踪 ID 中间件。
// 取值优先级：x-vercel-id > x-request-id > 本地生成 local_<epoch-ms>。
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader("x-vercel-id"))
		if traceID == "" {
			traceID = strings.TrimSpace(c.GetHeader("x-request-id"))
		}
		if traceID == "" {
			traceID = fmt.Sprintf("local_%d", time.Now().UnixMilli())
		}

		// 设置到 Gin Context
		c.Set("trace_id", traceID)

		// 设置到 Logger Context
		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		// 设置响应头
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}
