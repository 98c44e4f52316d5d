package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"RollDice/config"
	"RollDice/pkg/logger"
	"RollDice/pkg/response"
)

// RecoverMiddleware 捕获 handler panic
// 记录堆栈，把异常写进当前 span，然后返回 500，进程不退出
func RecoverMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				logger.Logger.Error("Handler panic recovered",
					zap.Any("panic", r),
					zap.String("path", string(c.Path())),
					zap.ByteString("stack", stack),
				)

				// 在 span 中记录异常（OpenTelemetry）
				if span := trace.SpanFromContext(ctx); span.IsRecording() {
					span.RecordError(fmt.Errorf("panic: %v", r))
					span.SetStatus(codes.Error, "panic recovered")
				}

				if config.Cfg.IsProduction() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}

				response.Error(ctx, c, fmt.Errorf("panic: %v", r))
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}
