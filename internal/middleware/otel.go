package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"RollDice/pkg/metrics"
)

// toValidUTF8 统一清洗用户可控字符串，防止非法 UTF-8 触发指标/trace 序列化失败
func toValidUTF8(val string) string {
	return strings.ToValidUTF8(val, "")
}

// NewServerTracerConfig 创建 Hertz Server 的追踪配置
// 返回用于初始化 Hertz server 的配置选项和追踪中间件
// server span 由返回的中间件建立，TelemetryMiddleware 再往上面补属性
func NewServerTracerConfig(opts ...hertztracing.Option) (config.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer(opts...)
	return tracer, hertztracing.ServerMiddleware(cfg)
}

// TelemetryMiddleware 补充 server span 属性并记录请求指标
// 必须注册在 hertztracing.ServerMiddleware 之后，那时 ctx 里已经带着 server span
func TelemetryMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		startTime := time.Now()

		m := metrics.GetMetrics()
		if m != nil {
			m.AddActiveRequest(ctx)
		}

		c.Next(ctx)

		duration := time.Since(startTime).Seconds()
		statusCode := int(c.Response.StatusCode())
		path := toValidUTF8(string(c.Path()))

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("http.host", toValidUTF8(string(c.Host()))),
				attribute.String("http.user_agent", toValidUTF8(string(c.UserAgent()))),
				attribute.Int("http.response_content_length", len(c.Response.Body())),
			)

			// 添加请求 ID, 用于 tracing 对应的请求
			if requestID := c.GetHeader("X-Request-Id"); len(requestID) > 0 {
				span.SetAttributes(attribute.String("http.request_id", toValidUTF8(string(requestID))))
			}

			// 根据状态码设置 Span 状态
			if statusCode >= 400 {
				span.SetStatus(codes.Error, "HTTP error")
				if statusCode >= 500 {
					if lastErr := c.Errors.Last(); lastErr != nil {
						span.RecordError(lastErr)
					}
				}
			} else {
				span.SetStatus(codes.Ok, "HTTP success")
			}
		}

		// 记录指标
		if m != nil {
			m.RecordRequest(ctx, path, statusCode, duration)
			m.SubtractActiveRequest(ctx)
		}
	}
}
