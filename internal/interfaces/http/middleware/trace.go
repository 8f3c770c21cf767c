// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"content-agent-api/pkg/logger"
)

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// SpanContext 注入 otel span_id 到 Logger Context。
// 对外回显的 trace_id 由 TraceID 中间件负责，这里不覆盖。
func SpanContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			spanID := span.SpanContext().SpanID().String()

			c.Set("span_id", spanID)

			ctx := logger.WithContext(c.Request.Context(), logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
