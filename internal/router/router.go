package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"RollDice/internal/handler"
	"RollDice/internal/middleware"
)

// Register 注册路由和中间件
// tracing 是 hertztracing 的 server 中间件，由 cmd/server 在建 server 时一并创建
func Register(h *server.Hertz, tracing app.HandlerFunc) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(tracing)
	h.Use(middleware.TelemetryMiddleware())

	h.GET("/health", handler.Health)
	h.GET("/roll-dice", handler.RollDice)
}
