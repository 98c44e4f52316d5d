package simulation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"RollDice/pkg/snowflake"
)

// Driver 模拟请求驱动器
// 单线程顺序执行：每轮完整跑一遍管线，轮与轮之间固定停顿
type Driver struct {
	pipeline *Pipeline
	interval time.Duration
	log      *zap.Logger
}

// NewDriver 创建驱动器，log 传 nil 时静默运行（测试用）
func NewDriver(pipeline *Pipeline, interval time.Duration, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}

	return &Driver{
		pipeline: pipeline,
		interval: interval,
		log:      log,
	}
}

// Run 顺序执行 count 次模拟请求
// ctx 取消只在请求之间生效，正在执行的一轮总是完整跑完，保证 span 配对关闭
func (d *Driver) Run(ctx context.Context, count int) error {
	d.log.Info("Simulation starting",
		zap.Int("requests", count),
		zap.Duration("interval", d.interval),
		zap.String("run_id", d.pipeline.tc.RunID()),
	)

	for i := 1; i <= count; i++ {
		requestID, err := snowflake.NextID()
		if err != nil {
			// 生成器没初始化时退化成序号，只影响 request.id 属性的形态
			requestID = int64(i)
		}

		result := d.pipeline.ProcessRequest(ctx, requestID)

		d.log.Info("Request processed",
			zap.Int("request", i),
			zap.Int64("request_id", result.RequestID),
			zap.Int("dice_result", result.Roll),
			zap.Int("status_code", result.StatusCode),
			zap.Duration("duration", result.Duration),
		)

		if i == count {
			break
		}

		select {
		case <-ctx.Done():
			d.log.Warn("Simulation interrupted", zap.Int("completed", i), zap.Error(ctx.Err()))
			return ctx.Err()
		case <-time.After(d.interval):
		}
	}

	d.log.Info("Simulation complete", zap.Int("requests", count))
	return nil
}
