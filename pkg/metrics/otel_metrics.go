package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 模拟请求相关指标
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter

	// 掷骰相关指标
	DiceRollsTotal   metric.Int64Counter
	DiceRollDuration metric.Float64Histogram
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("rolldice")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	// 模拟请求总数
	metrics.RequestsTotal, err = meter.Int64Counter(
		"rolldice_requests_total",
		metric.WithDescription("Total number of simulated requests processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	// 模拟请求耗时
	metrics.RequestDuration, err = meter.Float64Histogram(
		"rolldice_request_duration_seconds",
		metric.WithDescription("Time spent processing one simulated request in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return err
	}

	// 活跃请求数
	metrics.ActiveRequests, err = meter.Int64UpDownCounter(
		"rolldice_active_requests",
		metric.WithDescription("Number of simulated requests currently in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	// 掷骰总数
	metrics.DiceRollsTotal, err = meter.Int64Counter(
		"rolldice_rolls_total",
		metric.WithDescription("Total number of dice rolled"),
		metric.WithUnit("{roll}"),
	)
	if err != nil {
		return err
	}

	// 掷骰耗时（模拟的本地计算时间）
	metrics.DiceRollDuration, err = meter.Float64Histogram(
		"rolldice_roll_duration_seconds",
		metric.WithDescription("Simulated local computation time per roll in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordRequest 记录一次完成的模拟请求
func (m *OTelMetrics) RecordRequest(ctx context.Context, endpoint string, statusCode int, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("endpoint", endpoint),
		attribute.Int("status_code", statusCode),
	}

	m.RequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
}

// RecordRoll 记录一次掷骰结果
func (m *OTelMetrics) RecordRoll(ctx context.Context, result int, duration float64) {
	m.DiceRollsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("dice.result", result),
	))
	m.DiceRollDuration.Record(ctx, duration)
}

// AddActiveRequest 增加活跃请求计数
func (m *OTelMetrics) AddActiveRequest(ctx context.Context) {
	m.ActiveRequests.Add(ctx, 1)
}

// SubtractActiveRequest 减少活跃请求计数
func (m *OTelMetrics) SubtractActiveRequest(ctx context.Context) {
	m.ActiveRequests.Add(ctx, -1)
}
