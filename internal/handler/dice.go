package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"RollDice/config"
	"RollDice/internal/model"
	"RollDice/internal/simulation"
	"RollDice/pkg/errors"
	"RollDice/pkg/response"
	"RollDice/pkg/snowflake"
)

var pipe *simulation.Pipeline

// Init 注入共享的模拟管线
// HTTP 模式复用模拟器的子 span 逻辑，两种入口产出的 trace 形态一致
func Init(p *simulation.Pipeline) {
	pipe = p
}

// RollDice 处理 GET /roll-dice
// server span 由 OpenTelemetry 中间件建立，这里只负责挂在它下面的子 span
func RollDice(ctx context.Context, c *app.RequestContext) {
	if pipe == nil {
		response.Error(ctx, c, errors.RollFailed)
		return
	}

	requestID, err := snowflake.NextID()
	if err != nil {
		response.Error(ctx, c, errors.RollIDUnavailable)
		return
	}

	roll := pipe.SimulateWork(ctx)

	response.Success(ctx, c, model.RollResponse{
		RequestID: strconv.FormatInt(requestID, 10),
		Roll:      roll,
	})
}

// Health 处理 GET /health
func Health(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, model.HealthResponse{
		Status:  "ok",
		Service: config.Cfg.ServiceName,
	})
}
